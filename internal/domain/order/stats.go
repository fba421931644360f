package order

// Stats summarises a user's orders. Processing counts both confirmed and
// processing orders.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
}

func Summarize(orders []Order) Stats {
	stats := Stats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed, StatusProcessing:
			stats.Processing++
		case StatusShipped:
			stats.Shipped++
		case StatusDelivered:
			stats.Delivered++
		}
	}
	return stats
}
