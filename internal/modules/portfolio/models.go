package portfolio

import "time"

// Snapshot represents the portfolio value on a single day. Snapshots are
// supplied by the web tier; the analytics engine only reads them.
type Snapshot struct {
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	TotalValue  float64   `json:"total_value"`
	CashBalance float64   `json:"cash_balance"`
}
