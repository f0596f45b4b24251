package returns

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository reads daily return observations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new returns repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "returns").Logger(),
	}
}

// GetRecent returns up to window observations for a user, most recent first
func (r *Repository) GetRecent(userID string, window int) ([]Observation, error) {
	query := `
		SELECT user_id, date, daily_return
		FROM return_observations
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to query return observations: %w", err)
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var o Observation
		var date string
		if err := rows.Scan(&o.UserID, &date, &o.DailyReturn); err != nil {
			return nil, fmt.Errorf("failed to scan return observation: %w", err)
		}
		o.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observation date: %w", err)
		}
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating return observations: %w", err)
	}

	return observations, nil
}

// Values extracts the raw daily returns from a slice of observations
func Values(observations []Observation) []float64 {
	values := make([]float64, len(observations))
	for i, o := range observations {
		values[i] = o.DailyReturn
	}
	return values
}
