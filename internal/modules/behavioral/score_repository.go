package behavioral

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ScoreRepository appends and reads behavioral score records
type ScoreRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *sql.DB, log zerolog.Logger) *ScoreRepository {
	return &ScoreRepository{
		db:  db,
		log: log.With().Str("repo", "behavioral").Logger(),
	}
}

// Create appends a new score record. Records are never updated.
func (r *ScoreRepository) Create(record *ScoreRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	features, err := json.Marshal(record.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal feature snapshot: %w", err)
	}
	weights, err := json.Marshal(record.Weights)
	if err != nil {
		return fmt.Errorf("failed to marshal model weights: %w", err)
	}
	insights, err := json.Marshal(record.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	var lossAversion sql.NullFloat64
	if record.LossAversionRatio != nil {
		lossAversion = sql.NullFloat64{Float64: *record.LossAversionRatio, Valid: true}
	}

	query := `
		INSERT INTO behavioral_scores
			(id, user_id, panic_sell_score, recency_bias_score, risk_chasing_score,
			 liquidity_stress_score, adaptive_risk_score, loss_aversion_ratio,
			 feature_snapshot, model_weights, insights, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID,
		record.UserID,
		record.PanicSellScore,
		record.RecencyBiasScore,
		record.RiskChasingScore,
		record.LiquidityStressScore,
		record.AdaptiveRiskScore,
		lossAversion,
		string(features),
		string(weights),
		string(insights),
		record.CalculatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert behavioral score: %w", err)
	}

	return nil
}

// GetLatest returns the most recent score record for a user, or nil
func (r *ScoreRepository) GetLatest(userID string) (*ScoreRecord, error) {
	query := `
		SELECT id, user_id, panic_sell_score, recency_bias_score, risk_chasing_score,
		       liquidity_stress_score, adaptive_risk_score, loss_aversion_ratio,
		       feature_snapshot, model_weights, insights, calculated_at
		FROM behavioral_scores
		WHERE user_id = ?
		ORDER BY calculated_at DESC
		LIMIT 1
	`

	var record ScoreRecord
	var lossAversion sql.NullFloat64
	var features, weights, insights, calculatedAt string

	err := r.db.QueryRow(query, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.PanicSellScore,
		&record.RecencyBiasScore,
		&record.RiskChasingScore,
		&record.LiquidityStressScore,
		&record.AdaptiveRiskScore,
		&lossAversion,
		&features,
		&weights,
		&insights,
		&calculatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query behavioral score: %w", err)
	}

	if lossAversion.Valid {
		record.LossAversionRatio = &lossAversion.Float64
	}
	if err := json.Unmarshal([]byte(features), &record.Features); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(weights), &record.Weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model weights: %w", err)
	}
	if err := json.Unmarshal([]byte(insights), &record.Insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insights: %w", err)
	}
	record.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse score timestamp: %w", err)
	}

	return &record, nil
}

// ListActiveUsers returns the ids of users with at least one open holding.
// Used by the nightly refresh job.
func (r *ScoreRepository) ListActiveUsers() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT user_id FROM holdings WHERE quantity > 0")
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}

	return users, nil
}
