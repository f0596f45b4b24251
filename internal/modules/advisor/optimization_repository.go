package advisor

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// OptimizationRepository reads risk tolerances from past optimization runs
type OptimizationRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewOptimizationRepository creates a new optimization repository
func NewOptimizationRepository(db *sql.DB, log zerolog.Logger) *OptimizationRepository {
	return &OptimizationRepository{
		db:  db,
		log: log.With().Str("repo", "optimization").Logger(),
	}
}

// GetLatestTolerance returns the risk tolerance of the most recent
// optimization run for a user, or nil when no run exists
func (r *OptimizationRepository) GetLatestTolerance(userID string) (*float64, error) {
	query := `
		SELECT risk_tolerance
		FROM optimization_runs
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var tolerance float64
	err := r.db.QueryRow(query, userID).Scan(&tolerance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query optimization run: %w", err)
	}

	return &tolerance, nil
}
