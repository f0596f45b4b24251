package health

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StateRepository appends and reads portfolio state records
type StateRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *sql.DB, log zerolog.Logger) *StateRepository {
	return &StateRepository{
		db:  db,
		log: log.With().Str("repo", "health").Logger(),
	}
}

// Create appends a new state record. History is never mutated.
func (r *StateRepository) Create(record *StateRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	var healthIndex sql.NullFloat64
	if record.HealthIndex != nil {
		healthIndex = sql.NullFloat64{Float64: *record.HealthIndex, Valid: true}
	}

	query := `
		INSERT INTO portfolio_states (id, user_id, state, health_index, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID,
		record.UserID,
		string(record.State),
		healthIndex,
		record.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert state record: %w", err)
	}

	return nil
}

// GetLatest returns the most recent state record for a user, or nil
func (r *StateRepository) GetLatest(userID string) (*StateRecord, error) {
	query := `
		SELECT id, user_id, state, health_index, updated_at
		FROM portfolio_states
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var record StateRecord
	var state string
	var healthIndex sql.NullFloat64
	var updatedAt string

	err := r.db.QueryRow(query, userID).Scan(
		&record.ID, &record.UserID, &state, &healthIndex, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query state record: %w", err)
	}

	record.State = State(state)
	if healthIndex.Valid {
		record.HealthIndex = &healthIndex.Float64
	}
	record.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse state timestamp: %w", err)
	}

	return &record, nil
}
