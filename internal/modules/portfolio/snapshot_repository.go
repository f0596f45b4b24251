package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotRepository reads portfolio value snapshots
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// GetLatest returns the most recent snapshot for a user, or nil if none exists
func (r *SnapshotRepository) GetLatest(userID string) (*Snapshot, error) {
	query := `
		SELECT user_id, date, total_value, cash_balance
		FROM portfolio_snapshots
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT 1
	`

	var s Snapshot
	var date string
	err := r.db.QueryRow(query, userID).Scan(&s.UserID, &date, &s.TotalValue, &s.CashBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	s.Date, err = time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot date: %w", err)
	}

	return &s, nil
}

// GetHistory returns up to limit snapshots for a user in chronological order
// (oldest first), so the series feeds drawdown and momentum calculations
// directly.
func (r *SnapshotRepository) GetHistory(userID string, limit int) ([]Snapshot, error) {
	query := `
		SELECT user_id, date, total_value, cash_balance
		FROM portfolio_snapshots
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var date string
		if err := rows.Scan(&s.UserID, &date, &s.TotalValue, &s.CashBalance); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot date: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	// Reverse to chronological order
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	return snapshots, nil
}
