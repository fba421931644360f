package order

import "time"

// Step is one stage of the fulfilment timeline.
type Step struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

var timeline = []Step{
	{Status: StatusPending, Label: "Order Placed"},
	{Status: StatusConfirmed, Label: "Confirmed"},
	{Status: StatusProcessing, Label: "Processing"},
	{Status: StatusShipped, Label: "Shipped"},
	{Status: StatusDelivered, Label: "Delivered"},
}

// Progress is the display projection of an order status.
type Progress struct {
	Status              Status    `json:"status"`
	StepIndex           int       `json:"step_index"`
	Percentage          float64   `json:"percentage"`
	ConnectorPercentage float64   `json:"connector_percentage"`
	IsCancelled         bool      `json:"is_cancelled"`
	Steps               []Step    `json:"steps,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Timeline returns a copy of the fixed step sequence.
func Timeline() []Step {
	return append([]Step(nil), timeline...)
}

// stepIndex falls back to the first step for any status outside the
// timeline, refunded included.
func stepIndex(status Status) int {
	for i, s := range timeline {
		if s.Status == status {
			return i
		}
	}
	return 0
}

// ProjectStatus maps a status onto the timeline. Cancelled orders get no
// steps and zero progress.
func ProjectStatus(status Status, updatedAt time.Time) Progress {
	idx := stepIndex(status)
	p := Progress{
		Status:    status,
		StepIndex: idx,
		UpdatedAt: updatedAt,
	}

	if status == StatusCancelled {
		p.IsCancelled = true
		return p
	}

	last := len(timeline) - 1
	p.Percentage = float64((idx+1)*100) / float64(len(timeline))
	p.ConnectorPercentage = float64(idx*100) / float64(last)

	p.Steps = make([]Step, len(timeline))
	for i, s := range timeline {
		s.Completed = i <= idx
		s.Current = i == idx
		p.Steps[i] = s
	}
	return p
}
