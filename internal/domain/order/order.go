package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const AggregateType = "Order"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var validStatuses = map[Status]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

// Valid reports whether s is one of the statuses the backend may send.
func (s Status) Valid() bool {
	return validStatuses[s]
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentCancelled  PaymentStatus = "cancelled"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Order is the read-only view of a backend order. This module never
// changes its status.
type Order struct {
	ID                    string          `json:"id"`
	OrderNumber           string          `json:"order_number"`
	UserID                string          `json:"user_id"`
	Status                Status          `json:"status"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	PaymentMethod         string          `json:"payment_method,omitempty"`
	PaymentReference      string          `json:"payment_reference,omitempty"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	TaxAmount             decimal.Decimal `json:"tax_amount"`
	ShippingAmount        decimal.Decimal `json:"shipping_amount"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Currency              string          `json:"currency"`
	BillingAddress        map[string]any  `json:"billing_address,omitempty"`
	ShippingAddress       map[string]any  `json:"shipping_address,omitempty"`
	ShippingMethod        string          `json:"shipping_method,omitempty"`
	TrackingNumber        string          `json:"tracking_number,omitempty"`
	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date,omitempty"`
	DeliveredAt           *time.Time      `json:"delivered_at,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Items                 []OrderItem     `json:"order_items"`
}

// OrderItem references exactly one of a product or a service.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   *string         `json:"product_id"`
	ServiceID   *string         `json:"service_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Kind returns "product" or "service", or "" when the item references
// neither or both.
func (i OrderItem) Kind() string {
	switch {
	case i.ProductID != nil && i.ServiceID == nil:
		return "product"
	case i.ServiceID != nil && i.ProductID == nil:
		return "service"
	default:
		return ""
	}
}

// ExpectedTotal is subtotal + tax + shipping - discount.
func (o Order) ExpectedTotal() decimal.Decimal {
	return o.Subtotal.Add(o.TaxAmount).Add(o.ShippingAmount).Sub(o.DiscountAmount)
}

// TotalsConsistent reports whether TotalAmount matches ExpectedTotal.
// Nothing rejects an inconsistent order; callers may log it.
func (o Order) TotalsConsistent() bool {
	return o.TotalAmount.Equal(o.ExpectedTotal())
}

// ItemCount is the number of line items, not the sum of quantities.
func (o Order) ItemCount() int {
	return len(o.Items)
}
