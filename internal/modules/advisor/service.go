package advisor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/events"
	"github.com/stavrosk/wealth-compass/internal/modules/behavioral"
	"github.com/stavrosk/wealth-compass/internal/modules/returns"
	"github.com/stavrosk/wealth-compass/internal/modules/spending"
	"github.com/stavrosk/wealth-compass/internal/modules/trading"
	"github.com/stavrosk/wealth-compass/pkg/formulas"
)

// Confidence ladder. Each available input source raises confidence in the
// recommendation, capped below certainty.
const (
	confidenceBase            = 0.40
	confidenceBehavioralBonus = 0.20
	confidenceReturnsBonus    = 0.20
	confidenceTradesBonus     = 0.15
	confidenceSpendingBonus   = 0.05
	confidenceCap             = 0.95

	minReturnsForConfidence = 60
	minTradesForConfidence  = 20
)

// Service recommends risk-tolerance adjustments from behavioral scores and
// the market regime
type Service struct {
	scores       *behavioral.ScoreRepository
	returns      *returns.Repository
	actions      *trading.ActionRepository
	spending     *spending.Repository
	optimization *OptimizationRepository
	events       *events.Manager
	log          zerolog.Logger
}

// NewService creates a new risk advisor service
func NewService(
	scores *behavioral.ScoreRepository,
	returnsRepo *returns.Repository,
	actions *trading.ActionRepository,
	spendingRepo *spending.Repository,
	optimization *OptimizationRepository,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		scores:       scores,
		returns:      returnsRepo,
		actions:      actions,
		spending:     spendingRepo,
		optimization: optimization,
		events:       eventManager,
		log:          log.With().Str("service", "advisor").Logger(),
	}
}

// Recommend computes a risk-tolerance recommendation for a user. Adjustment
// rules apply additively on top of the current tolerance, each contributing a
// human-readable reason.
func (s *Service) Recommend(userID string) (*Recommendation, error) {
	current, err := s.currentTolerance(userID)
	if err != nil {
		return nil, err
	}

	observations, err := s.returns.GetRecent(userID, returns.LongWindow)
	if err != nil {
		return nil, err
	}
	regime := ClassifyRegime(observations)

	score, err := s.scores.GetLatest(userID)
	if err != nil {
		return nil, err
	}

	suggested := current
	var reasons []string

	if score != nil {
		if score.PanicSellScore > 60 {
			adj := (score.PanicSellScore - 60) / 40 * 2
			suggested -= adj
			reasons = append(reasons, fmt.Sprintf(
				"High panic-selling tendency (%.0f/100) suggests lowering risk by %.1f", score.PanicSellScore, adj))
		}
		if score.RecencyBiasScore > 55 {
			adj := (score.RecencyBiasScore - 55) / 45 * 1
			suggested -= adj
			reasons = append(reasons, fmt.Sprintf(
				"Recency bias (%.0f/100) suggests lowering risk by %.1f", score.RecencyBiasScore, adj))
		}
		if score.RiskChasingScore > 60 {
			adj := (score.RiskChasingScore - 60) / 40 * 1.5
			suggested -= adj
			reasons = append(reasons, fmt.Sprintf(
				"Risk-chasing behavior (%.0f/100) suggests lowering risk by %.1f", score.RiskChasingScore, adj))
		}
		if score.LiquidityStressScore < 30 {
			adj := (30 - score.LiquidityStressScore) / 30 * 1
			suggested += adj
			reasons = append(reasons, fmt.Sprintf(
				"Strong liquidity cushion (stress %.0f/100) supports raising risk by %.1f", score.LiquidityStressScore, adj))
		}
		if score.AdaptiveRiskScore > 70 {
			adj := (score.AdaptiveRiskScore - 70) / 30 * 1
			suggested += adj
			reasons = append(reasons, fmt.Sprintf(
				"Strong overall behavioral profile (%.0f/100) supports raising risk by %.1f", score.AdaptiveRiskScore, adj))
		}
	}

	if regime == RegimeHighVolatility {
		suggested -= 0.75
		reasons = append(reasons, "Market volatility is elevated; a temporary risk reduction of 0.75 is applied")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Your behavior and market conditions support your current risk tolerance; no adjustment needed")
	}

	suggested = formulas.Clamp(suggested, MinTolerance, MaxTolerance)

	confidence, err := s.confidence(userID, score != nil, len(observations))
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		CurrentTolerance:   current,
		SuggestedTolerance: suggested,
		Delta:              suggested - current,
		Confidence:         confidence,
		MarketRegime:       regime,
		Reasons:            reasons,
	}

	s.events.Emit(events.RecommendationMade, "advisor", map[string]interface{}{
		"user_id":   userID,
		"suggested": rec.SuggestedTolerance,
		"delta":     rec.Delta,
		"regime":    string(rec.MarketRegime),
	})

	return rec, nil
}

// currentTolerance reads the last optimization run's tolerance, normalized to
// the 1-10 scale. Values at or below 1 are assumed to be on a 0-1 scale.
func (s *Service) currentTolerance(userID string) (float64, error) {
	tolerance, err := s.optimization.GetLatestTolerance(userID)
	if err != nil {
		return 0, err
	}
	if tolerance == nil {
		return DefaultTolerance, nil
	}

	value := *tolerance
	if value <= 1 {
		value *= 10
	}
	return formulas.Clamp(value, MinTolerance, MaxTolerance), nil
}

func (s *Service) confidence(userID string, hasScore bool, observationCount int) (float64, error) {
	confidence := confidenceBase

	if hasScore {
		confidence += confidenceBehavioralBonus
	}
	if observationCount >= minReturnsForConfidence {
		confidence += confidenceReturnsBonus
	}

	trades, err := s.actions.Count(userID)
	if err != nil {
		return 0, err
	}
	if trades >= minTradesForConfidence {
		confidence += confidenceTradesBonus
	}

	metric, err := s.spending.GetLatestMetric(userID)
	if err != nil {
		return 0, err
	}
	if metric != nil {
		confidence += confidenceSpendingBonus
	}

	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	return confidence, nil
}
