package behavioral

import (
	"math"
	"time"

	"github.com/stavrosk/wealth-compass/internal/modules/holdings"
	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/returns"
	"github.com/stavrosk/wealth-compass/internal/modules/spending"
	"github.com/stavrosk/wealth-compass/internal/modules/trading"
	"github.com/stavrosk/wealth-compass/pkg/formulas"
)

// Inputs bundles everything the scorer reads. All fetches happen before
// scoring starts; the scorer itself is a pure function over this bundle.
type Inputs struct {
	Holdings []holdings.Holding
	Actions  []trading.Action      // most recent first
	Returns  []returns.Observation // most recent first
	Spending *spending.Metric      // may be nil
	Snapshot *portfolio.Snapshot   // may be nil
}

// Scorer computes the five bias sub-scores and the composite score
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a new behavioral scorer
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Compute calculates all sub-scores, the composite score, the loss-aversion
// ratio and the insight strings from the input bundle.
func (s *Scorer) Compute(userID string, in Inputs) *ScoreRecord {
	now := s.now()

	features := Features{
		ReturnObservations: len(in.Returns),
		Holdings:           len(in.Holdings),
	}
	if in.Snapshot != nil {
		features.PortfolioValue = in.Snapshot.TotalValue
	}
	if in.Spending != nil {
		features.MonthlyBurnRate, _ = in.Spending.MonthlyBurnRate.Float64()
	}

	panicScore := s.panicSellScore(in.Returns, in.Actions, &features)
	recencyScore := s.recencyBiasScore(in.Holdings, &features)
	riskScore := s.riskChasingScore(in.Holdings, &features)
	liquidityScore := s.liquidityStressScore(features.PortfolioValue, features.MonthlyBurnRate, &features)
	lossAversion := s.lossAversionRatio(in.Holdings, now, &features)

	composite := formulas.Clamp(
		100-(WeightPanicSell*panicScore+
			WeightRecencyBias*recencyScore+
			WeightRiskChasing*riskScore+
			WeightLiquidityStress*liquidityScore),
		0, 100)

	return &ScoreRecord{
		UserID:               userID,
		PanicSellScore:       panicScore,
		RecencyBiasScore:     recencyScore,
		RiskChasingScore:     riskScore,
		LiquidityStressScore: liquidityScore,
		AdaptiveRiskScore:    round2(composite),
		LossAversionRatio:    lossAversion,
		Features:             features,
		Weights:              CurrentWeights(),
		Insights:             buildInsights(panicScore, recencyScore, riskScore, liquidityScore),
		CalculatedAt:         now,
	}
}

// panicSellScore measures how often sell-type actions cluster around loss
// days (daily return below -1%). Ratio of panic sells to all sells, scaled
// to [0,100].
func (s *Scorer) panicSellScore(observations []returns.Observation, actions []trading.Action, features *Features) float64 {
	if len(observations) < MinReturnObservations {
		return NeutralScore
	}

	var lossDays []time.Time
	for _, o := range observations {
		if o.DailyReturn < LossDayThreshold {
			lossDays = append(lossDays, o.Date)
		}
	}
	features.LossDays = len(lossDays)

	var sells []trading.Action
	for _, a := range actions {
		if a.TriggerType.IsSellLike() {
			sells = append(sells, a)
		}
	}
	features.SellActions = len(sells)

	if len(sells) == 0 {
		// Rich return history with no sells at all tells us little about
		// panic behavior; land in the low-concern band.
		if len(observations) >= NoSellsMinObservations {
			return NoSellsDefault
		}
		return NeutralScore
	}

	window := time.Duration(PanicWindowDays) * 24 * time.Hour
	panicSells := 0
	for _, sell := range sells {
		for _, lossDay := range lossDays {
			diff := sell.ExecutedAt.Sub(lossDay)
			if diff < 0 {
				diff = -diff
			}
			if diff <= window {
				panicSells++
				break
			}
		}
	}
	features.PanicSells = panicSells

	ratio := float64(panicSells) / float64(len(sells))
	return round2(formulas.Clamp(ratio*100, 0, 100))
}

// recencyBiasScore compares value-weighted 30-day returns against
// value-weighted full-history returns. A positive gap means the portfolio
// tilts toward what just went up.
func (s *Scorer) recencyBiasScore(positions []holdings.Holding, features *Features) float64 {
	if len(positions) < MinHoldingsForRecency {
		return NeutralScore
	}

	var weightedRecent, weightedLongTerm, totalWeight float64
	for _, h := range positions {
		if h.AvgCost == nil || len(h.PriceSeries) < 2 {
			continue
		}

		weight := h.Quantity * *h.AvgCost
		if weight <= 0 {
			continue
		}

		series := h.PriceSeries
		last := series[len(series)-1]

		recentBase := series[0]
		if len(series) > RecencyWindowDays {
			recentBase = series[len(series)-1-RecencyWindowDays]
		}

		if recentBase == 0 || series[0] == 0 {
			continue
		}

		recentReturn := last/recentBase - 1
		longTermReturn := last/series[0] - 1

		weightedRecent += weight * recentReturn
		weightedLongTerm += weight * longTermReturn
		totalWeight += weight
	}

	if totalWeight == 0 {
		return NeutralScore
	}

	weightedRecent /= totalWeight
	weightedLongTerm /= totalWeight
	features.WeightedRecentReturn = round4(weightedRecent)
	features.WeightedLongTermReturn = round4(weightedLongTerm)

	bias := math.Max(0, weightedRecent-weightedLongTerm)
	return round2(formulas.Clamp(bias*RecencyBiasSlope+RecencyBiasBase, 0, 100))
}

// riskChasingScore measures value-weighted annualized volatility against a
// 15% baseline. Concentration in high-volatility assets pushes the score up.
func (s *Scorer) riskChasingScore(positions []holdings.Holding, features *Features) float64 {
	var weightedVol, totalWeight float64
	for _, h := range positions {
		if len(h.PriceSeries) < 2 {
			continue
		}

		weight := h.PositionValue()
		if weight <= 0 {
			continue
		}

		vol := formulas.AnnualizedVolatility(formulas.Returns(h.PriceSeries))
		weightedVol += weight * vol
		totalWeight += weight
	}

	if totalWeight > 0 {
		weightedVol /= totalWeight
	}
	features.WeightedVolatility = round4(weightedVol)

	excess := math.Max(0, weightedVol-VolatilityBaseline)
	return round2(formulas.Clamp(excess*RiskChasingSlope+RiskChasingBase, 0, 100))
}

// liquidityStressScore maps months of spending covered by the portfolio to a
// stress score. The three bands are continuous at their edges: 12 months
// scores 20 from both sides, 3 months scores 80.
func (s *Scorer) liquidityStressScore(portfolioValue, monthlyBurnRate float64, features *Features) float64 {
	if monthlyBurnRate <= 0 {
		return 20 // No measured spending, assume low stress
	}

	monthsCovered := portfolioValue / monthlyBurnRate
	features.MonthsCovered = round2(monthsCovered)

	var score float64
	switch {
	case monthsCovered >= LiquidityComfortMonths:
		score = 20 - (monthsCovered-LiquidityComfortMonths)*0.5
	case monthsCovered >= LiquidityDangerMonths:
		score = 20 + ((LiquidityComfortMonths-monthsCovered)/9)*60
	default:
		score = 80 + ((LiquidityDangerMonths-monthsCovered)/LiquidityDangerMonths)*20
	}

	return formulas.Clamp(math.Round(score), 0, 100)
}

// lossAversionRatio captures the disposition effect: how much longer losing
// positions have been held compared to winning ones. Needs at least one
// winner and one loser among holdings with a known cost basis.
func (s *Scorer) lossAversionRatio(positions []holdings.Holding, now time.Time, features *Features) *float64 {
	if len(positions) < 2 {
		return nil
	}

	var winnerAges, loserAges []float64
	for _, h := range positions {
		if h.AvgCost == nil || h.CurrentPrice() <= 0 {
			continue
		}

		age := h.AgeDays(now)
		if h.CurrentPrice() >= *h.AvgCost {
			winnerAges = append(winnerAges, age)
		} else {
			loserAges = append(loserAges, age)
		}
	}

	features.Winners = len(winnerAges)
	features.Losers = len(loserAges)

	if len(winnerAges) == 0 || len(loserAges) == 0 {
		return nil
	}

	winnerAvg := formulas.Mean(winnerAges)
	if winnerAvg <= 0 {
		return nil
	}

	ratio := round2(formulas.Mean(loserAges) / winnerAvg)
	if ratio <= 0 {
		return nil
	}
	return &ratio
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
