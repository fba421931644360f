package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectStatus_Timeline(t *testing.T) {
	updatedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		status     Status
		index      int
		percentage float64
		connector  float64
	}{
		{StatusPending, 0, 20, 0},
		{StatusConfirmed, 1, 40, 25},
		{StatusProcessing, 2, 60, 50},
		{StatusShipped, 3, 80, 75},
		{StatusDelivered, 4, 100, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := ProjectStatus(tt.status, updatedAt)

			assert.Equal(t, tt.index, p.StepIndex)
			assert.Equal(t, tt.percentage, p.Percentage)
			assert.Equal(t, tt.connector, p.ConnectorPercentage)
			assert.False(t, p.IsCancelled)
			assert.Equal(t, updatedAt, p.UpdatedAt)

			require.Len(t, p.Steps, 5)
			for i, step := range p.Steps {
				assert.Equal(t, i <= tt.index, step.Completed, "step %d completed", i)
				assert.Equal(t, i == tt.index, step.Current, "step %d current", i)
			}
		})
	}
}

func TestProjectStatus_Cancelled(t *testing.T) {
	for _, ts := range []time.Time{{}, time.Now(), time.Unix(0, 0)} {
		p := ProjectStatus(StatusCancelled, ts)

		assert.True(t, p.IsCancelled)
		assert.Zero(t, p.Percentage)
		assert.Zero(t, p.ConnectorPercentage)
		assert.Empty(t, p.Steps)
		assert.Equal(t, ts, p.UpdatedAt)
	}
}

func TestProjectStatus_FallsBackToFirstStep(t *testing.T) {
	for _, status := range []Status{StatusRefunded, "", "on_hold"} {
		t.Run(string(status), func(t *testing.T) {
			p := ProjectStatus(status, time.Time{})

			assert.False(t, p.IsCancelled)
			assert.Equal(t, 0, p.StepIndex)
			assert.Equal(t, float64(20), p.Percentage)
			assert.True(t, p.Steps[0].Current)
		})
	}
}

func TestTimeline_Labels(t *testing.T) {
	steps := Timeline()

	labels := make([]string, 0, len(steps))
	for _, s := range steps {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"Order Placed", "Confirmed", "Processing", "Shipped", "Delivered"}, labels)

	// callers cannot mutate the shared sequence
	steps[0].Label = "changed"
	assert.Equal(t, "Order Placed", Timeline()[0].Label)
}
