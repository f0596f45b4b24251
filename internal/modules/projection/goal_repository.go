package projection

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// GoalRepository reads user goals
type GoalRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *sql.DB, log zerolog.Logger) *GoalRepository {
	return &GoalRepository{
		db:  db,
		log: log.With().Str("repo", "goals").Logger(),
	}
}

// GetByID returns a goal by id, scoped to the owning user. Returns nil when
// the goal does not exist or belongs to a different user.
func (r *GoalRepository) GetByID(userID, goalID string) (*Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, target_date, priority
		FROM goals
		WHERE id = ? AND user_id = ?
	`

	var g Goal
	var name sql.NullString
	var targetDate string

	err := r.db.QueryRow(query, goalID, userID).Scan(
		&g.ID, &g.UserID, &name, &g.TargetAmount, &targetDate, &g.Priority,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}

	if name.Valid {
		g.Name = name.String
	}
	g.TargetDate, err = time.Parse(time.RFC3339, targetDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse goal target date: %w", err)
	}

	return &g, nil
}
