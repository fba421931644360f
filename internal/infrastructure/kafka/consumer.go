package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	minRetryDelay = 100 * time.Millisecond
	maxRetryDelay = 10 * time.Second
)

type MessageHandler func(ctx context.Context, key, value []byte) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads a topic as part of a consumer group and hands each
// message to a MessageHandler. Handler errors are logged and the message
// is skipped. Read errors are retried with exponential backoff.
type Consumer struct {
	reader   messageReader
	logger   *zap.Logger
	minDelay time.Duration
	maxDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		reader:   reader,
		logger:   logger.Named("kafka").With(zap.String("topic", topic)),
		minDelay: minRetryDelay,
		maxDelay: maxRetryDelay,
	}
}

// Consume blocks until ctx is done and returns its error.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	failures := 0
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := c.retryDelay(failures)
			failures++
			c.logger.Warn("read message failed",
				zap.Int("failures", failures),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		failures = 0

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			c.logger.Error("handle message failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// retryDelay doubles from minDelay for each consecutive failure, capped
// at maxDelay.
func (c *Consumer) retryDelay(failures int) time.Duration {
	delay := c.minDelay
	for i := 0; i < failures && delay < c.maxDelay; i++ {
		delay *= 2
	}
	if delay > c.maxDelay {
		return c.maxDelay
	}
	return delay
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
