// Package projection applies backend order events to the read store.
package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/query"
	"go.uber.org/zap"
)

type Projector struct {
	readStore store.ReadStoreInterface
	logger    *zap.Logger
}

func NewProjector(readStore store.ReadStoreInterface, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{readStore: readStore, logger: logger.Named("projector")}
}

// HandleEvent matches kafka.MessageHandler. Events for other aggregates
// are ignored.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	p.logger.Debug("received event",
		zap.String("event_type", event.EventType),
		zap.String("aggregate_type", event.AggregateType),
		zap.String("aggregate_id", event.AggregateID),
	)

	if event.AggregateType != order.AggregateType {
		return nil
	}
	return p.handleOrderEvent(event)
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if e.Order.ID == "" {
			return fmt.Errorf("order placed event %s has no order id", event.ID)
		}
		if !e.Order.TotalsConsistent() {
			p.logger.Warn("order totals do not add up",
				zap.String("order_id", e.Order.ID),
				zap.Stringer("total_amount", e.Order.TotalAmount),
				zap.Stringer("expected", e.Order.ExpectedTotal()),
			)
		}
		o := e.Order
		p.readStore.Set(query.OrdersCollection, o.ID, &o)

	case order.EventOrderStatusChanged:
		var e order.OrderStatusChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if !e.Status.Valid() {
			return fmt.Errorf("order %s: %w: %q", e.OrderID, order.ErrInvalidStatus, e.Status)
		}
		p.update(e.OrderID, func(o *order.Order) {
			o.Status = e.Status
			if e.TrackingNumber != "" {
				o.TrackingNumber = e.TrackingNumber
			}
			if e.DeliveredAt != nil {
				o.DeliveredAt = e.DeliveredAt
			}
			o.UpdatedAt = e.ChangedAt
		})

	case order.EventOrderPaymentStatusChanged:
		var e order.OrderPaymentStatusChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.update(e.OrderID, func(o *order.Order) {
			o.PaymentStatus = e.PaymentStatus
			if e.PaymentReference != "" {
				o.PaymentReference = e.PaymentReference
			}
			o.UpdatedAt = e.ChangedAt
		})
	}
	return nil
}

// update replaces the stored order with a copy modified by fn.
func (p *Projector) update(orderID string, fn func(o *order.Order)) {
	ok := p.readStore.Update(query.OrdersCollection, orderID, func(current any) any {
		existing, ok := current.(*order.Order)
		if !ok {
			return current
		}
		next := *existing
		fn(&next)
		return &next
	})
	if !ok {
		p.logger.Warn("event for unknown order", zap.String("order_id", orderID))
	}
}
