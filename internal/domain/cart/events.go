package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventItemAdded       = "ItemAddedToCart"
	EventQuantityChanged = "CartItemQuantityChanged"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventCartCleared     = "CartCleared"
)

// ItemAddedToCart carries the line quantity after the add.
type ItemAddedToCart struct {
	CartID   string          `json:"cart_id"`
	ItemID   int             `json:"item_id"`
	ItemType ItemType        `json:"item_type"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}

type CartItemQuantityChanged struct {
	CartID    string    `json:"cart_id"`
	ItemID    int       `json:"item_id"`
	ItemType  ItemType  `json:"item_type"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	ItemID    int       `json:"item_id"`
	ItemType  ItemType  `json:"item_type"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
