package trading

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ActionRepository reads the append-only trade action log
type ActionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *sql.DB, log zerolog.Logger) *ActionRepository {
	return &ActionRepository{
		db:  db,
		log: log.With().Str("repo", "trading").Logger(),
	}
}

// GetRecent returns up to limit actions for a user, most recent first
func (r *ActionRepository) GetRecent(userID string, limit int) ([]Action, error) {
	query := `
		SELECT id, user_id, executed_at, trigger_type, reason
		FROM trade_actions
		WHERE user_id = ?
		ORDER BY executed_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		var executedAt string
		var reason sql.NullString
		var trigger string

		if err := rows.Scan(&a.ID, &a.UserID, &executedAt, &trigger, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan trade action: %w", err)
		}

		a.ExecutedAt, err = time.Parse(time.RFC3339, executedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse action timestamp: %w", err)
		}
		a.TriggerType = TriggerTypeFromString(trigger)
		if reason.Valid {
			a.Reason = reason.String
		}

		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade actions: %w", err)
	}

	return actions, nil
}

// Count returns the total number of recorded actions for a user
func (r *ActionRepository) Count(userID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM trade_actions WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trade actions: %w", err)
	}
	return count, nil
}
