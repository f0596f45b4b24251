package returns

import "time"

// Observation is a single daily portfolio return observation
type Observation struct {
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	DailyReturn float64   `json:"daily_return"`
}

// Window sizes used by the regime classifier and behavioral features
const (
	ShortWindow = 21  // one trading month
	LongWindow  = 252 // one trading year
)
