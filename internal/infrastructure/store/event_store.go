package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one recorded storefront activity, or an order event received
// from the backend stream. Version is set by the backend for its own
// aggregates; activity events leave it empty.
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version,omitempty"`
}

// Publisher forwards appended events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

var ErrNoPublisher = errors.New("event store needs a publisher")

// EventStore turns storefront activity into events and hands them to a
// publisher. Nothing is kept in process; the broker is the log.
type EventStore struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewEventStore(publisher Publisher, logger *zap.Logger) (*EventStore, error) {
	if publisher == nil {
		return nil, ErrNoPublisher
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventStore{
		publisher: publisher,
		logger:    logger.Named("events"),
		now:       time.Now,
	}, nil
}

// Append builds the event and publishes it keyed by aggregateID. On a
// publish failure the built event is returned with the error.
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	event := Event{
		ID:            uuid.NewString(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          payload,
		Timestamp:     es.now(),
	}

	if err := es.publisher.Publish(ctx, aggregateID, event); err != nil {
		return &event, err
	}
	es.logger.Debug("event published",
		zap.String("aggregate_id", aggregateID),
		zap.String("event_type", eventType),
	)
	return &event, nil
}
