package risk

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository reads risk metrics
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new risk metrics repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "risk").Logger(),
	}
}

// GetLatest returns the most recent risk metrics for a user, or nil if none exist
func (r *Repository) GetLatest(userID string) (*Metrics, error) {
	query := `
		SELECT user_id, volatility, sharpe_ratio, sortino_ratio, max_drawdown, var_95, calculated_at
		FROM risk_metrics
		WHERE user_id = ?
		ORDER BY calculated_at DESC
		LIMIT 1
	`

	var m Metrics
	var sortino, maxDrawdown, var95 sql.NullFloat64
	var calculatedAt string

	err := r.db.QueryRow(query, userID).Scan(
		&m.UserID, &m.Volatility, &m.SharpeRatio, &sortino, &maxDrawdown, &var95, &calculatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query risk metrics: %w", err)
	}

	if sortino.Valid {
		m.SortinoRatio = &sortino.Float64
	}
	if maxDrawdown.Valid {
		m.MaxDrawdown = &maxDrawdown.Float64
	}
	if var95.Valid {
		m.VaR95 = &var95.Float64
	}

	m.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics timestamp: %w", err)
	}

	return &m, nil
}
