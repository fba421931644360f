package order

import "time"

// Events published by the backend on the order stream.
const (
	EventOrderPlaced               = "OrderPlaced"
	EventOrderStatusChanged        = "OrderStatusChanged"
	EventOrderPaymentStatusChanged = "OrderPaymentStatusChanged"
)

type OrderPlaced struct {
	Order Order `json:"order"`
}

type OrderStatusChanged struct {
	OrderID        string     `json:"order_id"`
	Status         Status     `json:"status"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	ChangedAt      time.Time  `json:"changed_at"`
}

type OrderPaymentStatusChanged struct {
	OrderID          string        `json:"order_id"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	ChangedAt        time.Time     `json:"changed_at"`
}
