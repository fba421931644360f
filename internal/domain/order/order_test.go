package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

// ============================================
// Totals Tests
// ============================================

func TestOrder_TotalsConsistent(t *testing.T) {
	o := Order{
		Subtotal:       decimal.RequireFromString("100.00"),
		TaxAmount:      decimal.RequireFromString("8.25"),
		ShippingAmount: decimal.RequireFromString("5.00"),
		DiscountAmount: decimal.RequireFromString("10.00"),
		TotalAmount:    decimal.RequireFromString("103.25"),
	}

	assert.True(t, o.ExpectedTotal().Equal(decimal.RequireFromString("103.25")))
	assert.True(t, o.TotalsConsistent())

	o.TotalAmount = decimal.RequireFromString("99.99")
	assert.False(t, o.TotalsConsistent())
}

func TestOrderItem_Kind(t *testing.T) {
	tests := []struct {
		name string
		item OrderItem
		want string
	}{
		{"product", OrderItem{ProductID: strPtr("p1")}, "product"},
		{"service", OrderItem{ServiceID: strPtr("s1")}, "service"},
		{"neither", OrderItem{}, ""},
		{"both", OrderItem{ProductID: strPtr("p1"), ServiceID: strPtr("s1")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Kind())
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusRefunded.Valid())
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("lost").Valid())
	assert.False(t, Status("").Valid())
}

// ============================================
// Badge Tests
// ============================================

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		status Status
		want   Badge
	}{
		{StatusPending, Badge{"Pending", "yellow"}},
		{StatusConfirmed, Badge{"Confirmed", "blue"}},
		{StatusProcessing, Badge{"Processing", "purple"}},
		{StatusShipped, Badge{"Shipped", "orange"}},
		{StatusDelivered, Badge{"Delivered", "green"}},
		{StatusCancelled, Badge{"Cancelled", "red"}},
		{StatusRefunded, Badge{"Refunded", "gray"}},
		{"on_hold", Badge{"On_hold", "gray"}},
		{"", Badge{"", "gray"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, BadgeFor(tt.status))
		})
	}
}

func TestPaymentBadgeFor(t *testing.T) {
	assert.Equal(t, Badge{"Completed", "green"}, PaymentBadgeFor(PaymentCompleted))
	assert.Equal(t, Badge{"Pending", "yellow"}, PaymentBadgeFor(PaymentPending))
	assert.Equal(t, Badge{"Failed", "red"}, PaymentBadgeFor(PaymentFailed))
	assert.Equal(t, Badge{"Refunded", "gray"}, PaymentBadgeFor(PaymentRefunded))
	assert.Equal(t, Badge{"Processing", "gray"}, PaymentBadgeFor(PaymentProcessing))
}

// ============================================
// Stats Tests
// ============================================

func TestSummarize(t *testing.T) {
	orders := []Order{
		{Status: StatusPending},
		{Status: StatusConfirmed},
		{Status: StatusProcessing},
		{Status: StatusShipped},
		{Status: StatusDelivered},
		{Status: StatusDelivered},
		{Status: StatusCancelled},
		{Status: StatusRefunded},
	}

	assert.Equal(t, Stats{Total: 8, Pending: 1, Processing: 2, Shipped: 1, Delivered: 2}, Summarize(orders))
	assert.Equal(t, Stats{}, Summarize(nil))
}
