package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventTypeHeader lets consumers route activity events without decoding
// the payload.
const EventTypeHeader = "event-type"

// Producer writes storefront activity to one topic. Messages are keyed by
// aggregate id, so a client's cart and session events share a partition
// and arrive in order.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger.Named("kafka").With(zap.String("topic", topic)),
	}
}

// Publish implements store.Publisher.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{Key: []byte(key), Value: value, Time: time.Now()}
	if e, ok := event.(store.Event); ok {
		msg.Headers = []kafka.Header{{Key: EventTypeHeader, Value: []byte(e.EventType)}}
		msg.Time = e.Timestamp
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("publish failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
