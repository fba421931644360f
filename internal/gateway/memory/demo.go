package memory

import (
	"fmt"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/shopspring/decimal"
)

// DemoOrders returns sample orders for userID, one per lifecycle stage,
// so the order pages have something to show without a backend.
func DemoOrders(userID string, now time.Time) []order.Order {
	type line struct {
		product bool
		refID   string
		name    string
		qty     int
		price   string
	}
	specs := []struct {
		status  order.Status
		payment order.PaymentStatus
		age     time.Duration
		lines   []line
	}{
		{order.StatusPending, order.PaymentPending, 2 * time.Hour, []line{
			{true, "3", "All-in-One Color Printer", 1, "249"},
		}},
		{order.StatusProcessing, order.PaymentCompleted, 26 * time.Hour, []line{
			{true, "6", "Mechanical Gaming Keyboard", 2, "129"},
			{false, "1", "Computer Repair & Diagnostics", 1, "89"},
		}},
		{order.StatusShipped, order.PaymentCompleted, 4 * 24 * time.Hour, []line{
			{true, "2", "Professional Business Laptop", 1, "899"},
		}},
		{order.StatusDelivered, order.PaymentCompleted, 12 * 24 * time.Hour, []line{
			{false, "2", "CCTV Installation & Setup", 1, "299"},
		}},
		{order.StatusCancelled, order.PaymentRefunded, 20 * 24 * time.Hour, []line{
			{true, "8", "Laser Printer - Monochrome", 1, "179"},
		}},
	}

	shipping := decimal.RequireFromString("9.99")
	taxRate := decimal.RequireFromString("0.08")

	orders := make([]order.Order, 0, len(specs))
	for i, s := range specs {
		id := fmt.Sprintf("%s-demo-%d", userID, i+1)
		created := now.Add(-s.age)
		o := order.Order{
			ID:             id,
			OrderNumber:    fmt.Sprintf("ORD-%s-%04d", created.Format("20060102"), i+1),
			UserID:         userID,
			Status:         s.status,
			PaymentStatus:  s.payment,
			PaymentMethod:  "card",
			ShippingAmount: shipping,
			Currency:       "USD",
			ShippingMethod: "standard",
			CreatedAt:      created,
			UpdatedAt:      created.Add(time.Hour),
		}
		for j, l := range s.lines {
			unit := decimal.RequireFromString(l.price)
			total := unit.Mul(decimal.NewFromInt(int64(l.qty)))
			item := order.OrderItem{
				ID:         fmt.Sprintf("%s-item-%d", id, j+1),
				OrderID:    id,
				Name:       l.name,
				Quantity:   l.qty,
				UnitPrice:  unit,
				TotalPrice: total,
				CreatedAt:  created,
			}
			ref := l.refID
			if l.product {
				item.ProductID = &ref
			} else {
				item.ServiceID = &ref
			}
			o.Items = append(o.Items, item)
			o.Subtotal = o.Subtotal.Add(total)
		}
		o.TaxAmount = o.Subtotal.Mul(taxRate).Round(2)
		o.TotalAmount = o.ExpectedTotal()
		switch s.status {
		case order.StatusShipped:
			o.TrackingNumber = fmt.Sprintf("1Z%08d", i+1)
		case order.StatusDelivered:
			o.TrackingNumber = fmt.Sprintf("1Z%08d", i+1)
			delivered := created.Add(3 * 24 * time.Hour)
			o.DeliveredAt = &delivered
			o.UpdatedAt = delivered
		}
		orders = append(orders, o)
	}
	return orders
}
