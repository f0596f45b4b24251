package behavioral

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavrosk/wealth-compass/internal/modules/holdings"
	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/returns"
	"github.com/stavrosk/wealth-compass/internal/modules/spending"
	"github.com/stavrosk/wealth-compass/internal/modules/trading"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	s := NewScorer()
	s.now = func() time.Time { return testNow }
	return s
}

func floatPtr(f float64) *float64 { return &f }

// makeSeries builds a 60-point price series with fixed first, 30-days-ago
// and last values; intermediate points interpolate linearly.
func makeSeries(first, thirtyAgo, last float64) []float64 {
	series := make([]float64, 60)
	for i := 0; i < 30; i++ {
		series[i] = first + (thirtyAgo-first)*float64(i)/29
	}
	for i := 30; i < 60; i++ {
		series[i] = thirtyAgo + (last-thirtyAgo)*float64(i-29)/30
	}
	series[29] = thirtyAgo
	series[59] = last
	return series
}

func TestComputeEmptyInputsUsesDefaults(t *testing.T) {
	scorer := newTestScorer()

	record := scorer.Compute("u1", Inputs{})

	assert.Equal(t, NeutralScore, record.PanicSellScore)
	assert.Equal(t, NeutralScore, record.RecencyBiasScore)
	assert.Equal(t, 30.0, record.RiskChasingScore)
	assert.Equal(t, 20.0, record.LiquidityStressScore)
	assert.Nil(t, record.LossAversionRatio)

	// 100 - (0.30*50 + 0.25*50 + 0.25*30 + 0.20*20) = 61
	assert.Equal(t, 61.0, record.AdaptiveRiskScore)
}

func TestAllScoresWithinBounds(t *testing.T) {
	scorer := newTestScorer()

	extremeSeries := makeSeries(10, 5, 500) // wild swings
	in := Inputs{
		Holdings: []holdings.Holding{
			{Ticker: "AAA", Quantity: 100, AvgCost: floatPtr(10), LastUpdated: testNow.AddDate(0, 0, -400), PriceSeries: extremeSeries},
			{Ticker: "BBB", Quantity: 50, AvgCost: floatPtr(600), LastUpdated: testNow.AddDate(0, 0, -10), PriceSeries: extremeSeries},
		},
		Snapshot: &portfolio.Snapshot{UserID: "u1", TotalValue: 1000},
		Spending: &spending.Metric{MonthlyBurnRate: decimal.NewFromInt(5000)},
	}

	record := scorer.Compute("u1", in)

	for name, score := range map[string]float64{
		"panic":     record.PanicSellScore,
		"recency":   record.RecencyBiasScore,
		"risk":      record.RiskChasingScore,
		"liquidity": record.LiquidityStressScore,
		"composite": record.AdaptiveRiskScore,
	} {
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 100.0, name)
	}
}

func TestPanicSellScore(t *testing.T) {
	scorer := newTestScorer()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	observations := []returns.Observation{
		{Date: base, DailyReturn: -0.02}, // loss day
		{Date: base.AddDate(0, 0, 1), DailyReturn: 0.01},
		{Date: base.AddDate(0, 0, 2), DailyReturn: 0.005},
		{Date: base.AddDate(0, 0, 3), DailyReturn: -0.002},
		{Date: base.AddDate(0, 0, 4), DailyReturn: 0.003},
		{Date: base.AddDate(0, 0, 7), DailyReturn: 0.001},
	}

	actions := []trading.Action{
		{TriggerType: trading.TriggerSell, ExecutedAt: base.AddDate(0, 0, 1)},  // within 3 days of loss
		{TriggerType: trading.TriggerSell, ExecutedAt: base.AddDate(0, 0, 20)}, // far from any loss
		{TriggerType: trading.TriggerBuy, ExecutedAt: base.AddDate(0, 0, 2)},   // buys don't count
	}

	var features Features
	score := scorer.panicSellScore(observations, actions, &features)

	// 1 panic sell / 2 sell-type actions = 50
	assert.Equal(t, 50.0, score)
	assert.Equal(t, 2, features.SellActions)
	assert.Equal(t, 1, features.PanicSells)
}

func TestPanicSellScoreDefaults(t *testing.T) {
	scorer := newTestScorer()

	t.Run("too few observations", func(t *testing.T) {
		var features Features
		obs := []returns.Observation{{DailyReturn: -0.05}}
		score := scorer.panicSellScore(obs, nil, &features)
		assert.Equal(t, NeutralScore, score)
	})

	t.Run("rich history but no sells", func(t *testing.T) {
		var features Features
		obs := make([]returns.Observation, 25)
		for i := range obs {
			obs[i] = returns.Observation{Date: testNow.AddDate(0, 0, -i), DailyReturn: 0.001}
		}
		score := scorer.panicSellScore(obs, nil, &features)
		assert.Equal(t, NoSellsDefault, score)
	})

	t.Run("thin history and no sells", func(t *testing.T) {
		var features Features
		obs := make([]returns.Observation, 10)
		for i := range obs {
			obs[i] = returns.Observation{Date: testNow.AddDate(0, 0, -i), DailyReturn: 0.001}
		}
		score := scorer.panicSellScore(obs, nil, &features)
		assert.Equal(t, NeutralScore, score)
	})
}

func TestRecencyBiasScore(t *testing.T) {
	scorer := newTestScorer()

	t.Run("single holding defaults to neutral", func(t *testing.T) {
		var features Features
		score := scorer.recencyBiasScore([]holdings.Holding{{Ticker: "AAA"}}, &features)
		assert.Equal(t, NeutralScore, score)
	})

	t.Run("no tilt scores at the base", func(t *testing.T) {
		// Recent and full-history returns identical: gap 0, score 30
		series := makeSeries(100, 100, 110)
		positions := []holdings.Holding{
			{Ticker: "AAA", Quantity: 10, AvgCost: floatPtr(100), PriceSeries: series},
			{Ticker: "BBB", Quantity: 5, AvgCost: floatPtr(100), PriceSeries: series},
		}
		var features Features
		score := scorer.recencyBiasScore(positions, &features)
		assert.InDelta(t, 30.0, score, 0.01)
	})

	t.Run("recent outperformance raises the score", func(t *testing.T) {
		// Full-history return 0, 30-day return +10%: gap 0.1, score 60
		series := makeSeries(110, 100, 110)
		positions := []holdings.Holding{
			{Ticker: "AAA", Quantity: 10, AvgCost: floatPtr(100), PriceSeries: series},
			{Ticker: "BBB", Quantity: 5, AvgCost: floatPtr(100), PriceSeries: series},
		}
		var features Features
		score := scorer.recencyBiasScore(positions, &features)
		assert.InDelta(t, 60.0, score, 0.01)
	})
}

func TestRiskChasingScore(t *testing.T) {
	scorer := newTestScorer()

	t.Run("flat prices score at the base", func(t *testing.T) {
		series := make([]float64, 60)
		for i := range series {
			series[i] = 100
		}
		positions := []holdings.Holding{
			{Ticker: "AAA", Quantity: 10, PriceSeries: series},
		}
		var features Features
		score := scorer.riskChasingScore(positions, &features)
		assert.Equal(t, 30.0, score)
	})

	t.Run("volatile prices raise the score", func(t *testing.T) {
		series := make([]float64, 60)
		for i := range series {
			if i%2 == 0 {
				series[i] = 100
			} else {
				series[i] = 105
			}
		}
		positions := []holdings.Holding{
			{Ticker: "VOL", Quantity: 10, PriceSeries: series},
		}
		var features Features
		score := scorer.riskChasingScore(positions, &features)
		assert.Greater(t, score, 30.0)
		assert.LessOrEqual(t, score, 100.0)
	})
}

func TestLiquidityStressScore(t *testing.T) {
	scorer := newTestScorer()

	tests := []struct {
		name           string
		portfolioValue float64
		burnRate       float64
		want           float64
	}{
		{"no measured spending", 50000, 0, 20},
		{"fifteen months covered", 30000, 2000, 19}, // 20 - 3*0.5 = 18.5, rounded
		{"comfort band boundary", 24000, 2000, 20},  // exactly 12 months
		{"danger band boundary", 6000, 2000, 80},    // exactly 3 months
		{"mid band", 15000, 2000, 50},               // 7.5 months: 20 + (4.5/9)*60 = 50
		{"no cushion at all", 0, 2000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var features Features
			score := scorer.liquidityStressScore(tt.portfolioValue, tt.burnRate, &features)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestLiquidityStressContinuityAtBandBoundaries(t *testing.T) {
	scorer := newTestScorer()

	// Just above and below 12 months covered
	var f Features
	above := scorer.liquidityStressScore(24020, 2000, &f)
	below := scorer.liquidityStressScore(23980, 2000, &f)
	assert.InDelta(t, above, below, 1.0)

	// Just above and below 3 months covered
	above = scorer.liquidityStressScore(6020, 2000, &f)
	below = scorer.liquidityStressScore(5980, 2000, &f)
	assert.InDelta(t, above, below, 1.0)
}

func TestLossAversionRatio(t *testing.T) {
	scorer := newTestScorer()

	t.Run("losers held longer than winners", func(t *testing.T) {
		positions := []holdings.Holding{
			{Ticker: "WIN", Quantity: 10, AvgCost: floatPtr(100), LastUpdated: testNow.AddDate(0, 0, -10), PriceSeries: []float64{100, 120}},
			{Ticker: "LOSE", Quantity: 10, AvgCost: floatPtr(100), LastUpdated: testNow.AddDate(0, 0, -30), PriceSeries: []float64{100, 80}},
		}

		var features Features
		ratio := scorer.lossAversionRatio(positions, testNow, &features)
		require.NotNil(t, ratio)
		assert.InDelta(t, 3.0, *ratio, 0.01)
		assert.Equal(t, 1, features.Winners)
		assert.Equal(t, 1, features.Losers)
	})

	t.Run("nil without both winners and losers", func(t *testing.T) {
		positions := []holdings.Holding{
			{Ticker: "WIN1", Quantity: 10, AvgCost: floatPtr(100), LastUpdated: testNow.AddDate(0, 0, -10), PriceSeries: []float64{100, 120}},
			{Ticker: "WIN2", Quantity: 10, AvgCost: floatPtr(100), LastUpdated: testNow.AddDate(0, 0, -20), PriceSeries: []float64{100, 130}},
		}

		var features Features
		assert.Nil(t, scorer.lossAversionRatio(positions, testNow, &features))
	})

	t.Run("nil with a single holding", func(t *testing.T) {
		positions := []holdings.Holding{
			{Ticker: "ONE", Quantity: 10, AvgCost: floatPtr(100), PriceSeries: []float64{100, 80}},
		}
		var features Features
		assert.Nil(t, scorer.lossAversionRatio(positions, testNow, &features))
	})
}

func TestInsightBands(t *testing.T) {
	low := buildInsights(10, 10, 10, 10)
	assert.Len(t, low, 3) // no risk-chasing insight below the band

	high := buildInsights(80, 80, 80, 80)
	assert.Len(t, high, 4)
	assert.NotEqual(t, low[0], high[0])
}
