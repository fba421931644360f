package httpgw

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/domain/order"
)

type OrderGateway struct {
	client *Client
}

func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{client: client}
}

func (g *OrderGateway) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	var resp struct {
		Orders []order.Order `json:"orders"`
	}
	path := "/orders?user_id=" + url.QueryEscape(userID)
	if err := g.client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Orders == nil {
		resp.Orders = []order.Order{}
	}
	return resp.Orders, nil
}

func (g *OrderGateway) GetOrder(ctx context.Context, orderID string) (order.Order, error) {
	var resp struct {
		Order order.Order `json:"order"`
	}
	err := g.client.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &resp)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return order.Order{}, order.ErrOrderNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	return resp.Order, nil
}
