package spending

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowType classifies a cash flow entry
type FlowType string

const (
	FlowIncome  FlowType = "INCOME"
	FlowExpense FlowType = "EXPENSE"
	FlowSaving  FlowType = "SAVING"
)

// CashFlow is one entry in the user's cash-flow ledger. Amounts are decimal
// so monetary aggregation does not accumulate float drift.
type CashFlow struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Amount     decimal.Decimal `json:"amount"`
	FlowType   FlowType        `json:"flow_type"`
}

// Metric is an immutable spending metrics record. One row per computation,
// never mutated; "current" is the most recent by CalculatedAt.
type Metric struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	MonthlyBurnRate   decimal.Decimal `json:"monthly_burn_rate"`
	SavingsRate       decimal.Decimal `json:"savings_rate"`
	ExpenseVolatility decimal.Decimal `json:"expense_volatility"`
	CalculatedAt      time.Time       `json:"calculated_at"`
}
