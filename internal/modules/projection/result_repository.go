package projection

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResultRepository appends and reads simulation results
type ResultRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewResultRepository creates a new simulation result repository
func NewResultRepository(db *sql.DB, log zerolog.Logger) *ResultRepository {
	return &ResultRepository{
		db:  db,
		log: log.With().Str("repo", "simulation_results").Logger(),
	}
}

// Create appends a new simulation result. Results are never updated.
func (r *ResultRepository) Create(result *SimulationResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	query := `
		INSERT INTO simulation_results
			(id, goal_id, user_id, num_simulations, goal_probability,
			 median_projection, worst_case_projection, best_case_projection,
			 drift_assumption, volatility_assumption, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		result.ID,
		result.GoalID,
		result.UserID,
		result.NumSimulations,
		result.GoalProbability,
		result.MedianProjection,
		result.WorstCaseProjection,
		result.BestCaseProjection,
		result.DriftAssumption,
		result.VolatilityAssumption,
		result.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation result: %w", err)
	}

	return nil
}

// GetLatest returns the most recent simulation result for a goal, or nil
func (r *ResultRepository) GetLatest(goalID string) (*SimulationResult, error) {
	query := `
		SELECT id, goal_id, user_id, num_simulations, goal_probability,
		       median_projection, worst_case_projection, best_case_projection,
		       drift_assumption, volatility_assumption, created_at
		FROM simulation_results
		WHERE goal_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var result SimulationResult
	var createdAt string

	err := r.db.QueryRow(query, goalID).Scan(
		&result.ID,
		&result.GoalID,
		&result.UserID,
		&result.NumSimulations,
		&result.GoalProbability,
		&result.MedianProjection,
		&result.WorstCaseProjection,
		&result.BestCaseProjection,
		&result.DriftAssumption,
		&result.VolatilityAssumption,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation result: %w", err)
	}

	result.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse result timestamp: %w", err)
	}

	return &result, nil
}
