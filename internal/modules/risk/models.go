package risk

import "time"

// Metrics holds risk figures supplied by the collaborating risk engine.
// The analytics core only reads the most recent record per user.
type Metrics struct {
	UserID       string    `json:"user_id"`
	Volatility   float64   `json:"volatility"` // annualized, >= 0
	SharpeRatio  float64   `json:"sharpe_ratio"`
	SortinoRatio *float64  `json:"sortino_ratio,omitempty"`
	MaxDrawdown  *float64  `json:"max_drawdown,omitempty"`
	VaR95        *float64  `json:"var_95,omitempty"`
	CalculatedAt time.Time `json:"calculated_at"`
}
