package order

import (
	"unicode"
	"unicode/utf8"
)

// Badge is the label and colour tone shown next to a status.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

var statusBadges = map[Status]Badge{
	StatusPending:    {Label: "Pending", Tone: "yellow"},
	StatusConfirmed:  {Label: "Confirmed", Tone: "blue"},
	StatusProcessing: {Label: "Processing", Tone: "purple"},
	StatusShipped:    {Label: "Shipped", Tone: "orange"},
	StatusDelivered:  {Label: "Delivered", Tone: "green"},
	StatusCancelled:  {Label: "Cancelled", Tone: "red"},
}

var paymentTones = map[PaymentStatus]string{
	PaymentCompleted: "green",
	PaymentPending:   "yellow",
	PaymentFailed:    "red",
}

// BadgeFor returns the badge for an order status. Statuses without a
// dedicated badge get their capitalised name on a gray badge.
func BadgeFor(status Status) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return Badge{Label: capitalize(string(status)), Tone: "gray"}
}

func PaymentBadgeFor(status PaymentStatus) Badge {
	tone, ok := paymentTones[status]
	if !ok {
		tone = "gray"
	}
	return Badge{Label: capitalize(string(status)), Tone: tone}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
