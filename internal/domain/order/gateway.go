package order

import "context"

// Gateway is the read side of the backend order service.
type Gateway interface {
	ListOrders(ctx context.Context, userID string) ([]Order, error)
	GetOrder(ctx context.Context, orderID string) (Order, error)
}
