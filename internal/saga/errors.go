package saga

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the saga step that failed.
type Stage string

const (
	StageSale      Stage = "sale"
	StageItems     Stage = "items"
	StageInventory Stage = "inventory"
	StagePayment   Stage = "payment"
	StageReceipt   Stage = "receipt"
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sale request: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StepError is an ordinary saga failure. Every step completed before Stage has
// been undone, except for StageReceipt where the sale is committed and only the
// read failed.
type StepError struct {
	Stage  Stage
	SaleID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sale %s failed at %s: %v", e.SaleID, e.Stage, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// CompensationError means a rollback step failed after Cause. The store may hold
// a partial sale and needs manual repair.
type CompensationError struct {
	Cause    *StepError
	Failures []error
}

func (e *CompensationError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%v; rollback incomplete: %s", e.Cause, strings.Join(msgs, "; "))
}

// Unwrap exposes only the original failure. Rollback failures are in Failures.
func (e *CompensationError) Unwrap() error { return e.Cause }

// IsInconsistent reports whether err left partial sale state behind.
func IsInconsistent(err error) bool {
	var ce *CompensationError
	return errors.As(err, &ce)
}
