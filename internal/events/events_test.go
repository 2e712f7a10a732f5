package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop()
	assert.NoError(t, p.PublishEvent(context.Background(), TopicSaleCompleted, "k", SaleCompleted{SaleID: "k"}))
}

func TestKafkaPublisher_MarshalError(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"})
	defer p.Close()

	err := p.PublishEvent(context.Background(), TopicSaleCompleted, "k", make(chan int))
	assert.ErrorContains(t, err, "failed to marshal event")
}
