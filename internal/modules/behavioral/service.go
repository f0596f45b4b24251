package behavioral

import (
	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/events"
	"github.com/stavrosk/wealth-compass/internal/modules/holdings"
	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/returns"
	"github.com/stavrosk/wealth-compass/internal/modules/spending"
	"github.com/stavrosk/wealth-compass/internal/modules/trading"
)

// TradeActionWindow bounds how many recent trade actions feed the scorer.
const TradeActionWindow = 30

// Service orchestrates behavioral scoring: fetch inputs up front, run the
// pure scorer, append the record.
type Service struct {
	scorer    *Scorer
	scores    *ScoreRepository
	holdings  *holdings.Repository
	actions   *trading.ActionRepository
	returns   *returns.Repository
	spending  *spending.Repository
	snapshots *portfolio.SnapshotRepository
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates a new behavioral scoring service
func NewService(
	scores *ScoreRepository,
	holdingsRepo *holdings.Repository,
	actions *trading.ActionRepository,
	returnsRepo *returns.Repository,
	spendingRepo *spending.Repository,
	snapshots *portfolio.SnapshotRepository,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		scorer:    NewScorer(),
		scores:    scores,
		holdings:  holdingsRepo,
		actions:   actions,
		returns:   returnsRepo,
		spending:  spendingRepo,
		snapshots: snapshots,
		events:    eventManager,
		log:       log.With().Str("service", "behavioral").Logger(),
	}
}

// Score computes a fresh behavioral score record for a user. Input fetch
// failures abort the computation; a persistence failure is logged and
// swallowed so the computed result stays available to the caller.
func (s *Service) Score(userID string) (*ScoreRecord, error) {
	positions, err := s.holdings.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	actions, err := s.actions.GetRecent(userID, TradeActionWindow)
	if err != nil {
		return nil, err
	}

	observations, err := s.returns.GetRecent(userID, returns.LongWindow)
	if err != nil {
		return nil, err
	}

	metric, err := s.spending.GetLatestMetric(userID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.GetLatest(userID)
	if err != nil {
		return nil, err
	}

	record := s.scorer.Compute(userID, Inputs{
		Holdings: positions,
		Actions:  actions,
		Returns:  observations,
		Spending: metric,
		Snapshot: snapshot,
	})

	if err := s.scores.Create(record); err != nil {
		s.log.Error().
			Str("user_id", userID).
			Err(err).
			Msg("Failed to persist behavioral score")
	} else {
		s.events.Emit(events.ScoreRefreshed, "behavioral", map[string]interface{}{
			"user_id":             userID,
			"adaptive_risk_score": record.AdaptiveRiskScore,
		})
	}

	return record, nil
}

// Latest returns the most recent stored score record for a user, or nil
func (s *Service) Latest(userID string) (*ScoreRecord, error) {
	return s.scores.GetLatest(userID)
}
