// Package storefront exposes the user actions of one client: browsing the
// catalog, editing the cart, managing the session and viewing orders.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/session"
	"github.com/example/storefront/internal/infrastructure/store"
	"go.uber.org/zap"
)

var (
	ErrLoginRequired   = errors.New("please login to continue")
	ErrForbidden       = errors.New("order belongs to another user")
	ErrProductNotFound = errors.New("product not found")
	ErrServiceNotFound = errors.New("service not found")
)

// Dependencies are shared by every workspace.
type Dependencies struct {
	Catalog *catalog.Catalog
	Auth    session.AuthGateway
	Orders  order.Gateway
	Events  store.EventStoreInterface // optional
	Logger  *zap.Logger
}

// Workspace pairs one client's session and cart. Actions are serialised
// by a mutex, so a workspace may be shared between requests.
type Workspace struct {
	mu       sync.Mutex
	clientID string
	session  *session.Store
	cart     *cart.Store
	catalog  *catalog.Catalog
	orders   order.Gateway
	logger   *zap.Logger
}

// Open builds the workspace for clientID over kv and restores any
// persisted session and cart.
func Open(ctx context.Context, clientID string, kv store.KV, deps Dependencies) (*Workspace, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Workspace{
		clientID: clientID,
		session:  session.NewStore(clientID, kv, deps.Auth, deps.Events, logger),
		cart:     cart.NewStore(clientID, kv, deps.Events, logger),
		catalog:  deps.Catalog,
		orders:   deps.Orders,
		logger:   logger.Named("workspace").With(zap.String("client_id", clientID)),
	}

	if err := w.session.Restore(ctx); err != nil {
		return nil, err
	}
	if err := w.cart.Restore(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workspace) ClientID() string {
	return w.clientID
}

// ============================================
// Cart actions
// ============================================

// AddProduct adds one unit of a catalog product. A signed-in user is
// required.
func (w *Workspace) AddProduct(ctx context.Context, id string) (cart.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.session.LoggedIn() {
		return cart.Snapshot{}, ErrLoginRequired
	}
	p, ok := w.catalog.Product(id)
	if !ok {
		return cart.Snapshot{}, ErrProductNotFound
	}
	if err := w.cart.AddToCart(ctx, p.CartItem()); err != nil {
		return cart.Snapshot{}, err
	}
	return w.cart.Snapshot(), nil
}

func (w *Workspace) AddService(ctx context.Context, id string) (cart.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.session.LoggedIn() {
		return cart.Snapshot{}, ErrLoginRequired
	}
	s, ok := w.catalog.Service(id)
	if !ok {
		return cart.Snapshot{}, ErrServiceNotFound
	}
	if err := w.cart.AddToCart(ctx, s.CartItem()); err != nil {
		return cart.Snapshot{}, err
	}
	return w.cart.Snapshot(), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (w *Workspace) UpdateQuantity(ctx context.Context, key cart.Key, quantity int) (cart.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.cart.UpdateQuantity(ctx, key, quantity); err != nil {
		return cart.Snapshot{}, err
	}
	return w.cart.Snapshot(), nil
}

func (w *Workspace) RemoveFromCart(ctx context.Context, key cart.Key) (cart.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.cart.RemoveFromCart(ctx, key); err != nil {
		return cart.Snapshot{}, err
	}
	return w.cart.Snapshot(), nil
}

func (w *Workspace) ClearCart(ctx context.Context) (cart.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.cart.ClearCart(ctx); err != nil {
		return cart.Snapshot{}, err
	}
	return w.cart.Snapshot(), nil
}

func (w *Workspace) Cart() cart.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cart.Snapshot()
}

// ============================================
// Session actions
// ============================================

func (w *Workspace) Login(ctx context.Context, email, password string) (session.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.session.Login(ctx, email, password); err != nil {
		return session.User{}, err
	}
	u, _ := w.session.User()
	return u, nil
}

func (w *Workspace) Register(ctx context.Context, name, email, password string) (session.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.session.Register(ctx, name, email, password); err != nil {
		return session.User{}, err
	}
	u, _ := w.session.User()
	return u, nil
}

func (w *Workspace) UpdateProfile(ctx context.Context, update session.ProfileUpdate) (session.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.session.UpdateProfile(ctx, update); err != nil {
		return session.User{}, err
	}
	u, _ := w.session.User()
	return u, nil
}

// Logout ends the session. The cart is kept.
func (w *Workspace) Logout(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session.Logout(ctx)
}

func (w *Workspace) CurrentUser() (session.User, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.User()
}

// ============================================
// Order views
// ============================================

// OrderView is an order with its display projection.
type OrderView struct {
	order.Order
	ItemCount    int            `json:"item_count"`
	Progress     order.Progress `json:"progress"`
	Badge        order.Badge    `json:"badge"`
	PaymentBadge order.Badge    `json:"payment_badge"`
}

func newOrderView(o order.Order) OrderView {
	return OrderView{
		Order:        o,
		ItemCount:    o.ItemCount(),
		Progress:     order.ProjectStatus(o.Status, o.UpdatedAt),
		Badge:        order.BadgeFor(o.Status),
		PaymentBadge: order.PaymentBadgeFor(o.PaymentStatus),
	}
}

// currentUserID must be called with w.mu held.
func (w *Workspace) currentUserID() (string, error) {
	u, ok := w.session.User()
	if !ok {
		return "", ErrLoginRequired
	}
	return u.ID, nil
}

func (w *Workspace) Orders(ctx context.Context) ([]OrderView, error) {
	orders, err := w.listOrders(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	return views, nil
}

// Order returns one of the signed-in user's orders.
func (w *Workspace) Order(ctx context.Context, orderID string) (OrderView, error) {
	w.mu.Lock()
	userID, err := w.currentUserID()
	w.mu.Unlock()
	if err != nil {
		return OrderView{}, err
	}

	o, err := w.orders.GetOrder(ctx, orderID)
	if err != nil {
		return OrderView{}, err
	}
	if o.UserID != userID {
		return OrderView{}, ErrForbidden
	}
	w.checkTotals(o)
	return newOrderView(o), nil
}

func (w *Workspace) OrderStats(ctx context.Context) (order.Stats, error) {
	orders, err := w.listOrders(ctx)
	if err != nil {
		return order.Stats{}, err
	}
	return order.Summarize(orders), nil
}

// listOrders does not hold the workspace lock across the gateway call.
func (w *Workspace) listOrders(ctx context.Context) ([]order.Order, error) {
	w.mu.Lock()
	userID, err := w.currentUserID()
	w.mu.Unlock()
	if err != nil {
		return nil, err
	}

	orders, err := w.orders.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for _, o := range orders {
		w.checkTotals(o)
	}
	return orders, nil
}

func (w *Workspace) checkTotals(o order.Order) {
	if !o.TotalsConsistent() {
		w.logger.Warn("order totals do not add up",
			zap.String("order_id", o.ID),
			zap.Stringer("total_amount", o.TotalAmount),
			zap.Stringer("expected", o.ExpectedTotal()),
		)
	}
}
