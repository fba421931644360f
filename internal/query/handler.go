// Package query serves projected orders as an order.Gateway.
package query

import (
	"context"
	"sort"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/store"
	"go.uber.org/zap"
)

// OrdersCollection is the read store collection the projector fills.
const OrdersCollection = "orders"

type Handler struct {
	readStore store.ReadStoreInterface
	logger    *zap.Logger
}

func NewHandler(readStore store.ReadStoreInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{readStore: readStore, logger: logger.Named("query")}
}

func (h *Handler) GetOrder(_ context.Context, orderID string) (order.Order, error) {
	data, ok := h.readStore.Get(OrdersCollection, orderID)
	if !ok {
		return order.Order{}, order.ErrOrderNotFound
	}
	o, ok := data.(*order.Order)
	if !ok {
		h.logger.Error("unexpected read model type", zap.String("order_id", orderID))
		return order.Order{}, order.ErrOrderNotFound
	}
	return clone(o), nil
}

// ListOrders returns the user's orders, newest first.
func (h *Handler) ListOrders(_ context.Context, userID string) ([]order.Order, error) {
	orders := make([]order.Order, 0)
	for _, item := range h.readStore.GetAll(OrdersCollection) {
		o, ok := item.(*order.Order)
		if !ok || o.UserID != userID {
			continue
		}
		orders = append(orders, clone(o))
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func clone(o *order.Order) order.Order {
	c := *o
	c.Items = append([]order.OrderItem(nil), o.Items...)
	return c
}
