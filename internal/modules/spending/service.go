package spending

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stavrosk/wealth-compass/pkg/formulas"
)

// LookbackDays is the ledger window the metrics are computed over.
const LookbackDays = 182 // ~6 months

// Service computes spending metrics from the cash-flow ledger
type Service struct {
	repo *Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a new spending metric service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "spending").Logger(),
		now:  time.Now,
	}
}

// Recompute calculates fresh spending metrics and appends a new record.
// The computed metric is returned even when persistence fails; a storage
// failure only degrades history logging.
func (s *Service) Recompute(userID string) (*Metric, error) {
	now := s.now()
	since := now.AddDate(0, 0, -LookbackDays)

	flows, err := s.repo.GetCashFlows(userID, since)
	if err != nil {
		return nil, err
	}

	metric := s.compute(userID, flows, now)

	if err := s.repo.CreateMetric(metric); err != nil {
		s.log.Error().
			Str("user_id", userID).
			Err(err).
			Msg("Failed to persist spending metric")
	}

	return metric, nil
}

// Latest returns the most recent stored metric, or nil when none exists
func (s *Service) Latest(userID string) (*Metric, error) {
	return s.repo.GetLatestMetric(userID)
}

// compute aggregates the ledger with decimal arithmetic. Only the expense
// volatility goes through float math, for the standard deviation.
func (s *Service) compute(userID string, flows []CashFlow, now time.Time) *Metric {
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	monthlyExpenses := make(map[string]decimal.Decimal)

	for _, f := range flows {
		switch f.FlowType {
		case FlowIncome:
			totalIncome = totalIncome.Add(f.Amount)
		case FlowExpense:
			totalExpense = totalExpense.Add(f.Amount)
			month := f.OccurredAt.Format("2006-01")
			monthlyExpenses[month] = monthlyExpenses[month].Add(f.Amount)
		}
	}

	months := decimal.NewFromFloat(float64(LookbackDays) / 30.44)
	burnRate := decimal.Zero
	if months.IsPositive() {
		burnRate = totalExpense.Div(months).Round(2)
	}

	savingsRate := decimal.Zero
	if totalIncome.IsPositive() {
		savingsRate = totalIncome.Sub(totalExpense).Div(totalIncome).Round(4)
	}

	monthTotals := make([]float64, 0, len(monthlyExpenses))
	for _, total := range monthlyExpenses {
		v, _ := total.Float64()
		monthTotals = append(monthTotals, v)
	}
	expenseVolatility := decimal.NewFromFloat(formulas.StdDev(monthTotals)).Round(2)

	return &Metric{
		UserID:            userID,
		MonthlyBurnRate:   burnRate,
		SavingsRate:       savingsRate,
		ExpenseVolatility: expenseVolatility,
		CalculatedAt:      now,
	}
}
