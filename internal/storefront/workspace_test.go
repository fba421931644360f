package storefront

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/session"
	"github.com/example/storefront/internal/gateway/memory"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	kv     *store.MemoryKV
	orders *memory.OrderGateway
	events *mocks.MockEventStore
	deps   Dependencies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	env := &testEnv{
		kv:     store.NewMemoryKV(),
		orders: memory.NewOrderGateway(),
		events: mocks.NewMockEventStore(),
	}
	env.deps = Dependencies{
		Catalog: c,
		Auth:    memory.NewAuthGateway(),
		Orders:  env.orders,
		Events:  env.events,
		Logger:  zap.NewNop(),
	}
	return env
}

func (e *testEnv) open(t *testing.T, clientID string) *Workspace {
	t.Helper()
	w, err := Open(context.Background(), clientID, store.Namespace(e.kv, clientID), e.deps)
	require.NoError(t, err)
	return w
}

func newLoggedInWorkspace(t *testing.T) (*Workspace, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	w := env.open(t, "client-1")
	_, err := w.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	return w, env
}

// ============================================
// Cart Action Tests
// ============================================

func TestWorkspace_AddProduct_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	w := env.open(t, "client-1")

	_, err := w.AddProduct(context.Background(), "1")

	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 0, w.Cart().Count)
}

func TestWorkspace_AddService_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	w := env.open(t, "client-1")

	_, err := w.AddService(context.Background(), "1")

	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestWorkspace_AddProductAndService(t *testing.T) {
	w, _ := newLoggedInWorkspace(t)
	ctx := context.Background()

	_, err := w.AddProduct(ctx, "1")
	require.NoError(t, err)
	_, err = w.AddProduct(ctx, "1")
	require.NoError(t, err)
	snap, err := w.AddService(ctx, "1")
	require.NoError(t, err)

	require.Len(t, snap.Items, 2)
	assert.Equal(t, cart.Key{ID: 1, Type: cart.ItemTypeProduct}, snap.Items[0].Key())
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, cart.Key{ID: 1, Type: cart.ItemTypeService}, snap.Items[1].Key())
	assert.Equal(t, 3, snap.Count)
	// 2 x 1299 + 89
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(2687)), "got %s", snap.Total)
}

func TestWorkspace_AddUnknownItem(t *testing.T) {
	w, _ := newLoggedInWorkspace(t)
	ctx := context.Background()

	_, err := w.AddProduct(ctx, "404")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = w.AddService(ctx, "abc")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestWorkspace_UpdateRemoveClear(t *testing.T) {
	w, _ := newLoggedInWorkspace(t)
	ctx := context.Background()
	printer := cart.Key{ID: 3, Type: cart.ItemTypeProduct}
	keyboard := cart.Key{ID: 6, Type: cart.ItemTypeProduct}

	_, _ = w.AddProduct(ctx, "3")
	_, _ = w.AddProduct(ctx, "6")

	snap, err := w.UpdateQuantity(ctx, printer, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Count)

	snap, err = w.UpdateQuantity(ctx, keyboard, 0)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)

	snap, err = w.RemoveFromCart(ctx, printer)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)

	_, _ = w.AddProduct(ctx, "3")
	snap, err = w.ClearCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Count)
	assert.True(t, snap.Total.IsZero())
}

func TestWorkspace_LogoutKeepsCart(t *testing.T) {
	w, _ := newLoggedInWorkspace(t)
	ctx := context.Background()

	_, _ = w.AddProduct(ctx, "3")
	w.Logout(ctx)

	_, ok := w.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, 1, w.Cart().Count)
}

// ============================================
// Session Action Tests
// ============================================

func TestWorkspace_LoginAndRegister(t *testing.T) {
	env := newTestEnv(t)
	w := env.open(t, "client-1")
	ctx := context.Background()

	_, err := w.Login(ctx, "a@b.com", "12345")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)

	u, err := w.Login(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "a", u.Name)

	u, err = w.Register(ctx, "Bob", "bob@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.NotEqual(t, "1", u.ID)
}

func TestWorkspace_UpdateProfile(t *testing.T) {
	w, _ := newLoggedInWorkspace(t)
	ctx := context.Background()
	phone := "555-0100"

	u, err := w.UpdateProfile(ctx, session.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, u.Phone)

	_, err = w.UpdateProfile(ctx, session.ProfileUpdate{NewPassword: "newpass1", ConfirmPassword: "newpass1"})
	assert.ErrorIs(t, err, session.ErrCurrentPasswordRequired)
}

// ============================================
// Persistence Tests
// ============================================

func TestWorkspace_SurvivesReopen(t *testing.T) {
	w, env := newLoggedInWorkspace(t)
	ctx := context.Background()

	_, _ = w.AddProduct(ctx, "2")
	_, _ = w.AddService(ctx, "4")

	reopened := env.open(t, "client-1")

	u, ok := reopened.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, 2, reopened.Cart().Count)

	other := env.open(t, "client-2")
	_, ok = other.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, 0, other.Cart().Count)
}

func TestWorkspace_CorruptRecordsStartEmpty(t *testing.T) {
	env := newTestEnv(t)
	ns := store.Namespace(env.kv, "client-1")
	ctx := context.Background()
	require.NoError(t, ns.Set(ctx, session.StorageKey, []byte("{not json")))
	require.NoError(t, ns.Set(ctx, cart.StorageKey, []byte(`[{"id":1,"type":"gadget","quantity":1,"price":"1"}]`)))

	w := env.open(t, "client-1")

	_, ok := w.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, 0, w.Cart().Count)
}

func TestWorkspace_RecordsActivityEvents(t *testing.T) {
	w, env := newLoggedInWorkspace(t)
	ctx := context.Background()

	_, _ = w.AddProduct(ctx, "1")
	w.Logout(ctx)

	assert.Equal(t, []string{
		session.EventUserLoggedIn,
		cart.EventItemAdded,
		session.EventUserLoggedOut,
	}, env.events.EventTypes())
}

// ============================================
// Order View Tests
// ============================================

func TestWorkspace_Orders_RequireLogin(t *testing.T) {
	env := newTestEnv(t)
	w := env.open(t, "client-1")
	ctx := context.Background()

	_, err := w.Orders(ctx)
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = w.Order(ctx, "anything")
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = w.OrderStats(ctx)
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestWorkspace_Orders(t *testing.T) {
	w, env := newLoggedInWorkspace(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, o := range memory.DemoOrders("1", now) {
		env.orders.Put(o)
	}
	env.orders.Put(order.Order{ID: "someone-else", UserID: "2", Status: order.StatusPending})

	views, err := w.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, views, 5)

	newest := views[0]
	assert.Equal(t, order.StatusPending, newest.Status)
	assert.Equal(t, float64(20), newest.Progress.Percentage)
	assert.Equal(t, "Pending", newest.Badge.Label)
	assert.Equal(t, newest.ItemCount, len(newest.Items))

	cancelled := views[4]
	assert.True(t, cancelled.Progress.IsCancelled)
	assert.Equal(t, float64(0), cancelled.Progress.Percentage)
	assert.Equal(t, "red", cancelled.Badge.Tone)

	stats, err := w.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, order.Stats{Total: 5, Pending: 1, Processing: 1, Shipped: 1, Delivered: 1}, stats)
}

func TestWorkspace_Order(t *testing.T) {
	w, env := newLoggedInWorkspace(t)
	ctx := context.Background()

	env.orders.Put(order.Order{ID: "mine", UserID: "1", Status: order.StatusDelivered})
	env.orders.Put(order.Order{ID: "theirs", UserID: "2", Status: order.StatusShipped})

	view, err := w.Order(ctx, "mine")
	require.NoError(t, err)
	assert.Equal(t, float64(100), view.Progress.Percentage)
	assert.Equal(t, float64(100), view.Progress.ConnectorPercentage)

	_, err = w.Order(ctx, "theirs")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = w.Order(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

// ============================================
// Registry Tests
// ============================================

func TestRegistry_Get(t *testing.T) {
	env := newTestEnv(t)
	r := NewRegistry(env.kv, env.deps, 0)
	ctx := context.Background()

	a, err := r.Get(ctx, "client-a")
	require.NoError(t, err)
	again, err := r.Get(ctx, "client-a")
	require.NoError(t, err)
	b, err := r.Get(ctx, "client-b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_EvictedWorkspaceRestoresFromStorage(t *testing.T) {
	env := newTestEnv(t)
	r := NewRegistry(env.kv, env.deps, 1)
	ctx := context.Background()

	w, err := r.Get(ctx, "client-a")
	require.NoError(t, err)
	_, err = w.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	_, err = w.AddProduct(ctx, "5")
	require.NoError(t, err)

	_, err = r.Get(ctx, "client-b")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	restored, err := r.Get(ctx, "client-a")
	require.NoError(t, err)
	assert.NotSame(t, w, restored)
	assert.Equal(t, 1, restored.Cart().Count)
	_, ok := restored.CurrentUser()
	assert.True(t, ok)

	raw, ok, err := env.kv.Get(ctx, "client/client-a/"+cart.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, raw)
}

func TestRegistry_BoundedByCapacity(t *testing.T) {
	env := newTestEnv(t)
	r := NewRegistry(env.kv, env.deps, 8)
	ctx := context.Background()

	var last *Workspace
	for i := 0; i < 100; i++ {
		w, err := r.Get(ctx, fmt.Sprintf("client-%d", i))
		require.NoError(t, err)
		last = w
	}

	assert.Equal(t, 8, r.Len())
	again, err := r.Get(ctx, "client-99")
	require.NoError(t, err)
	assert.Same(t, last, again)
}

func TestRegistry_GetPropagatesStorageErrors(t *testing.T) {
	env := newTestEnv(t)
	kv := mocks.NewMockKV()
	kv.GetErr = assert.AnError
	r := NewRegistry(kv, env.deps, 0)

	_, err := r.Get(context.Background(), "client-a")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, r.Len())
}
