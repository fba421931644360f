package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/example/storefront/internal/domain/order"
)

// OrderGateway serves orders held in memory, newest first.
type OrderGateway struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

func NewOrderGateway(orders ...order.Order) *OrderGateway {
	g := &OrderGateway{orders: make(map[string]order.Order, len(orders))}
	for _, o := range orders {
		g.orders[o.ID] = o
	}
	return g
}

// Put adds or replaces an order.
func (g *OrderGateway) Put(o order.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[o.ID] = o
}

func (g *OrderGateway) ListOrders(_ context.Context, userID string) ([]order.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]order.Order, 0)
	for _, o := range g.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (g *OrderGateway) GetOrder(_ context.Context, orderID string) (order.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	o, ok := g.orders[orderID]
	if !ok {
		return order.Order{}, order.ErrOrderNotFound
	}
	return o, nil
}
