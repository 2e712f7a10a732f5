package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
)

// KafkaPublisher writes JSON messages through a single shared kafka-go writer.
type KafkaPublisher struct {
	writer *kafkaGo.Writer
}

// NewKafkaPublisher connects a publisher to brokers. The
// topic is chosen per message. Close releases the underlying writer.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Balancer:               &kafkaGo.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (k *KafkaPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return k.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
