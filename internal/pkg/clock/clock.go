package clock

import "time"

// Clock is an interface for time operations to enable testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New returns the system clock, in UTC.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Mock is a settable clock for tests.
type Mock struct {
	current time.Time
}

func NewMock(start time.Time) *Mock {
	return &Mock{current: start}
}

func (m *Mock) Now() time.Time {
	return m.current
}

func (m *Mock) Advance(d time.Duration) {
	m.current = m.current.Add(d)
}
