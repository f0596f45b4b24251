package spending

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavrosk/wealth-compass/internal/database"
)

var computedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func flow(flowType FlowType, amount float64, daysAgo int) CashFlow {
	return CashFlow{
		UserID:     "u1",
		OccurredAt: computedAt.AddDate(0, 0, -daysAgo),
		Amount:     decimal.NewFromFloat(amount),
		FlowType:   flowType,
	}
}

func TestComputeBurnAndSavingsRate(t *testing.T) {
	service := NewService(nil, zerolog.Nop())

	flows := []CashFlow{
		flow(FlowIncome, 4000, 10),
		flow(FlowIncome, 2000, 40),
		flow(FlowExpense, 1000, 5),
		flow(FlowExpense, 2000, 35),
	}

	metric := service.compute("u1", flows, computedAt)

	// 3000 total expense over 182/30.44 months
	burn, _ := metric.MonthlyBurnRate.Float64()
	assert.InDelta(t, 501.75, burn, 0.01)

	// (6000 - 3000) / 6000
	assert.True(t, metric.SavingsRate.Equal(decimal.NewFromFloat(0.5)),
		"got savings rate %s", metric.SavingsRate)

	// Two monthly totals of 1000 and 2000: sample stdev 707.11
	vol, _ := metric.ExpenseVolatility.Float64()
	assert.InDelta(t, 707.11, vol, 0.01)
}

func TestComputeEmptyLedger(t *testing.T) {
	service := NewService(nil, zerolog.Nop())

	metric := service.compute("u1", nil, computedAt)

	assert.True(t, metric.MonthlyBurnRate.IsZero())
	assert.True(t, metric.SavingsRate.IsZero())
	assert.True(t, metric.ExpenseVolatility.IsZero())
}

func TestComputeNoIncome(t *testing.T) {
	service := NewService(nil, zerolog.Nop())

	metric := service.compute("u1", []CashFlow{flow(FlowExpense, 500, 3)}, computedAt)

	assert.True(t, metric.SavingsRate.IsZero())
	assert.True(t, metric.MonthlyBurnRate.IsPositive())
	// A single expense month has no measurable spread
	assert.True(t, metric.ExpenseVolatility.IsZero())
}

func TestComputeIgnoresSavingFlows(t *testing.T) {
	service := NewService(nil, zerolog.Nop())

	flows := []CashFlow{
		flow(FlowIncome, 1000, 10),
		flow(FlowSaving, 800, 9),
	}

	metric := service.compute("u1", flows, computedAt)
	assert.True(t, metric.MonthlyBurnRate.IsZero())
	assert.True(t, metric.SavingsRate.Equal(decimal.NewFromInt(1)),
		"got savings rate %s", metric.SavingsRate)
}

func TestRecomputePersistsAndReturns(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := zerolog.Nop()
	repo := NewRepository(db.Conn(), log)
	service := NewService(repo, log)
	service.now = func() time.Time { return computedAt }

	// One expense inside the lookback window, one long before it
	for _, f := range []CashFlow{
		flow(FlowExpense, 1200, 30),
		flow(FlowExpense, 9999, 400),
		flow(FlowIncome, 3000, 20),
	} {
		_, err := db.Exec(
			`INSERT INTO cash_flows (id, user_id, occurred_at, amount, flow_type) VALUES (?, ?, ?, ?, ?)`,
			f.ID+f.OccurredAt.Format(time.RFC3339), f.UserID,
			f.OccurredAt.Format(time.RFC3339), f.Amount.String(), string(f.FlowType),
		)
		require.NoError(t, err)
	}

	metric, err := service.Recompute("u1")
	require.NoError(t, err)

	// The 400-day-old expense is outside the window
	burn, _ := metric.MonthlyBurnRate.Float64()
	assert.InDelta(t, 200.70, burn, 0.01) // 1200 / 5.979 months

	stored, err := service.Latest("u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.MonthlyBurnRate.Equal(metric.MonthlyBurnRate))
	assert.Equal(t, metric.ID, stored.ID)
}
