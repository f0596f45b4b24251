package spending

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repository reads the cash-flow ledger and appends spending metric records
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new spending repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "spending").Logger(),
	}
}

// GetLatestMetric returns the most recent spending metric for a user, or nil
func (r *Repository) GetLatestMetric(userID string) (*Metric, error) {
	query := `
		SELECT id, user_id, monthly_burn_rate, savings_rate, expense_volatility, calculated_at
		FROM spending_metrics
		WHERE user_id = ?
		ORDER BY calculated_at DESC
		LIMIT 1
	`

	var m Metric
	var burnRate, savingsRate, expenseVol, calculatedAt string

	err := r.db.QueryRow(query, userID).Scan(
		&m.ID, &m.UserID, &burnRate, &savingsRate, &expenseVol, &calculatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query spending metric: %w", err)
	}

	if m.MonthlyBurnRate, err = decimal.NewFromString(burnRate); err != nil {
		return nil, fmt.Errorf("failed to parse burn rate: %w", err)
	}
	if m.SavingsRate, err = decimal.NewFromString(savingsRate); err != nil {
		return nil, fmt.Errorf("failed to parse savings rate: %w", err)
	}
	if m.ExpenseVolatility, err = decimal.NewFromString(expenseVol); err != nil {
		return nil, fmt.Errorf("failed to parse expense volatility: %w", err)
	}
	if m.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse metric timestamp: %w", err)
	}

	return &m, nil
}

// CreateMetric appends a new spending metric record
func (r *Repository) CreateMetric(m *Metric) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO spending_metrics
			(id, user_id, monthly_burn_rate, savings_rate, expense_volatility, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		m.ID,
		m.UserID,
		m.MonthlyBurnRate.String(),
		m.SavingsRate.String(),
		m.ExpenseVolatility.String(),
		m.CalculatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert spending metric: %w", err)
	}

	return nil
}

// GetCashFlows returns cash flows for a user since the given time, most
// recent first
func (r *Repository) GetCashFlows(userID string, since time.Time) ([]CashFlow, error) {
	query := `
		SELECT id, user_id, occurred_at, amount, flow_type
		FROM cash_flows
		WHERE user_id = ? AND occurred_at >= ?
		ORDER BY occurred_at DESC
	`

	rows, err := r.db.Query(query, userID, since.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flows: %w", err)
	}
	defer rows.Close()

	var flows []CashFlow
	for rows.Next() {
		var f CashFlow
		var occurredAt, amount, flowType string

		if err := rows.Scan(&f.ID, &f.UserID, &occurredAt, &amount, &flowType); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow: %w", err)
		}

		if f.OccurredAt, err = time.Parse(time.RFC3339, occurredAt); err != nil {
			return nil, fmt.Errorf("failed to parse cash flow timestamp: %w", err)
		}
		if f.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse cash flow amount: %w", err)
		}
		f.FlowType = FlowType(flowType)

		flows = append(flows, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flows: %w", err)
	}

	return flows, nil
}
