package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const AggregateType = "Cart"

// StorageKey is where the cart contents are kept in the client's KV
// namespace.
const StorageKey = "cart.items"

var (
	ErrInvalidItem   = errors.New("item id must be positive")
	ErrInvalidType   = errors.New("item type must be product or service")
	ErrNegativePrice = errors.New("item price cannot be negative")
)

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeService
}

// Key identifies a cart line. Products and services have independent id
// spaces, so both parts are needed.
type Key struct {
	ID   int      `json:"id"`
	Type ItemType `json:"type"`
}

type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Type     ItemType        `json:"type"`
}

func (i Item) Key() Key {
	return Key{ID: i.ID, Type: i.Type}
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is the cart state handed to subscribers.
type Snapshot struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Store keeps one client's cart lines in insertion order. It is not safe
// for concurrent use; callers serialise access.
type Store struct {
	id     string
	kv     store.KV
	events store.EventStoreInterface
	logger *zap.Logger
	now    func() time.Time

	items        []Item
	listeners    map[int]func(Snapshot)
	nextListener int
}

// NewStore creates an empty cart. With a nil kv the cart lives in memory
// only; events may be nil.
func NewStore(id string, kv store.KV, events store.EventStoreInterface, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		id:        id,
		kv:        kv,
		events:    events,
		logger:    logger.Named("cart").With(zap.String("client_id", id)),
		now:       time.Now,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Restore loads persisted cart lines. Undecodable data, or lines that
// break the cart rules, leave the cart empty.
func (s *Store) Restore(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}
	if !ok {
		s.items = nil
		s.notify()
		return nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil || !validLines(items) {
		s.logger.Warn("discarding malformed cart record", zap.Error(err))
		items = nil
	}
	s.items = items
	s.notify()
	return nil
}

func validLines(items []Item) bool {
	seen := make(map[Key]bool, len(items))
	for _, it := range items {
		if validate(it) != nil || it.Quantity < 1 || seen[it.Key()] {
			return false
		}
		seen[it.Key()] = true
	}
	return true
}

func validate(item Item) error {
	if item.ID <= 0 {
		return ErrInvalidItem
	}
	if !item.Type.Valid() {
		return ErrInvalidType
	}
	if item.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// AddToCart increments the quantity of an existing line by one, or
// appends item with quantity 1. The incoming Quantity is ignored.
func (s *Store) AddToCart(ctx context.Context, item Item) error {
	if err := validate(item); err != nil {
		return err
	}

	next := s.copyItems()
	quantity := 1
	if i := indexOf(next, item.Key()); i >= 0 {
		next[i].Quantity++
		quantity = next[i].Quantity
	} else {
		item.Quantity = 1
		next = append(next, item)
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.record(ctx, EventItemAdded, ItemAddedToCart{
		CartID:   s.id,
		ItemID:   item.ID,
		ItemType: item.Type,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
		AddedAt:  s.now(),
	})
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Unknown keys are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, key Key, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, key)
	}

	i := indexOf(s.items, key)
	if i < 0 {
		return nil
	}

	next := s.copyItems()
	next[i].Quantity = quantity
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.record(ctx, EventQuantityChanged, CartItemQuantityChanged{
		CartID:    s.id,
		ItemID:    key.ID,
		ItemType:  key.Type,
		Quantity:  quantity,
		ChangedAt: s.now(),
	})
	return nil
}

// RemoveFromCart deletes a line. Unknown keys are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, key Key) error {
	i := indexOf(s.items, key)
	if i < 0 {
		return nil
	}

	next := s.copyItems()
	next = append(next[:i], next[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.record(ctx, EventItemRemoved, ItemRemovedFromCart{
		CartID:    s.id,
		ItemID:    key.ID,
		ItemType:  key.Type,
		RemovedAt: s.now(),
	})
	return nil
}

func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.commit(ctx, nil); err != nil {
		return err
	}

	s.record(ctx, EventCartCleared, CartCleared{
		CartID:    s.id,
		ClearedAt: s.now(),
	})
	return nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	return s.copyItems()
}

// Item returns the line for key.
func (s *Store) Item(key Key) (Item, bool) {
	if i := indexOf(s.items, key); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Total is the sum of price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Count is the sum of quantities over all lines.
func (s *Store) Count() int {
	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Items: s.copyItems(),
		Total: s.Total(),
		Count: s.Count(),
	}
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// commit persists next and only then makes it the current state.
func (s *Store) commit(ctx context.Context, next []Item) error {
	if s.kv != nil {
		raw, err := json.Marshal(nonNil(next))
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}
		if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
	}
	s.items = next
	s.notify()
	return nil
}

func (s *Store) notify() {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.listeners {
		fn(snap)
	}
}

func (s *Store) record(ctx context.Context, eventType string, data any) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Append(ctx, s.id, AggregateType, eventType, data); err != nil {
		s.logger.Warn("failed to record cart event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func (s *Store) copyItems() []Item {
	if len(s.items) == 0 {
		return nil
	}
	return append([]Item(nil), s.items...)
}

func indexOf(items []Item, key Key) int {
	for i, it := range items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
