package holdings

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PriceHistoryPoints is how many recent closes are attached to each holding.
const PriceHistoryPoints = 60

// Repository reads holdings and attaches their recent price series
type Repository struct {
	db      *sql.DB
	history *HistoryDB
	log     zerolog.Logger
}

// NewRepository creates a new holdings repository
func NewRepository(db *sql.DB, history *HistoryDB, log zerolog.Logger) *Repository {
	return &Repository{
		db:      db,
		history: history,
		log:     log.With().Str("repo", "holdings").Logger(),
	}
}

// GetByUser returns all holdings for a user with price series attached.
// A missing history file leaves the series empty rather than failing the
// whole fetch; features that need prices skip such holdings.
func (r *Repository) GetByUser(userID string) ([]Holding, error) {
	query := `
		SELECT user_id, ticker, quantity, avg_cost, last_updated
		FROM holdings
		WHERE user_id = ? AND quantity > 0
		ORDER BY ticker
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var result []Holding
	for rows.Next() {
		var h Holding
		var avgCost sql.NullFloat64
		var lastUpdated string

		if err := rows.Scan(&h.UserID, &h.Ticker, &h.Quantity, &avgCost, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		if avgCost.Valid {
			h.AvgCost = &avgCost.Float64
		}
		h.LastUpdated, err = time.Parse(time.RFC3339, lastUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holding timestamp: %w", err)
		}

		result = append(result, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	for i := range result {
		prices, err := r.history.GetClosePrices(result[i].Ticker, PriceHistoryPoints)
		if err != nil {
			r.log.Warn().
				Str("ticker", result[i].Ticker).
				Err(err).
				Msg("Failed to load price history")
			continue
		}
		result[i].PriceSeries = prices
	}

	return result, nil
}
