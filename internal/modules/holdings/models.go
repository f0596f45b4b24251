package holdings

import "time"

// Holding is a user's position in one asset, together with the recent price
// series the behavioral features are computed from.
type Holding struct {
	UserID      string    `json:"user_id"`
	Ticker      string    `json:"ticker"`
	Quantity    float64   `json:"quantity"` // >= 0
	AvgCost     *float64  `json:"avg_cost,omitempty"`
	LastUpdated time.Time `json:"last_updated"`

	// PriceSeries is chronological (oldest first), most recent ~60 points
	PriceSeries []float64 `json:"price_series,omitempty"`
}

// CurrentPrice returns the latest price in the series, or 0 if none is loaded
func (h *Holding) CurrentPrice() float64 {
	if len(h.PriceSeries) == 0 {
		return 0
	}
	return h.PriceSeries[len(h.PriceSeries)-1]
}

// PositionValue returns quantity × latest price
func (h *Holding) PositionValue() float64 {
	return h.Quantity * h.CurrentPrice()
}

// CostValue returns quantity × average cost, or 0 when the cost is unknown
func (h *Holding) CostValue() float64 {
	if h.AvgCost == nil {
		return 0
	}
	return h.Quantity * *h.AvgCost
}

// AgeDays returns how many days ago the holding was last updated
func (h *Holding) AgeDays(now time.Time) float64 {
	return now.Sub(h.LastUpdated).Hours() / 24
}
