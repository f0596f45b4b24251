package projection

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/domain"
	"github.com/stavrosk/wealth-compass/internal/events"
	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/risk"
	"github.com/stavrosk/wealth-compass/internal/modules/simulation"
)

const (
	// SimulationCount is a calibrated cost/precision tradeoff: enough paths
	// for stable percentiles, bounded worst-case latency.
	SimulationCount = 5000

	// MinYears floors the projection horizon for goals dated today or in
	// the past.
	MinYears = 0.01

	daysPerYear = 365.25
)

// Service projects goal-achievement probability from Monte Carlo paths
type Service struct {
	simulator *simulation.Simulator
	goals     *GoalRepository
	results   *ResultRepository
	snapshots *portfolio.SnapshotRepository
	risk      *risk.Repository
	events    *events.Manager
	factory   simulation.SourceFactory
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new goal projection service
func NewService(
	simulator *simulation.Simulator,
	goals *GoalRepository,
	results *ResultRepository,
	snapshots *portfolio.SnapshotRepository,
	riskRepo *risk.Repository,
	eventManager *events.Manager,
	factory simulation.SourceFactory,
	log zerolog.Logger,
) *Service {
	return &Service{
		simulator: simulator,
		goals:     goals,
		results:   results,
		snapshots: snapshots,
		risk:      riskRepo,
		events:    eventManager,
		factory:   factory,
		log:       log.With().Str("service", "projection").Logger(),
		now:       time.Now,
	}
}

// Project runs a Monte Carlo projection for a goal and appends the result.
// Requires the latest snapshot, latest risk metrics and the goal itself;
// any missing input is a NotFound error, never silently defaulted.
func (s *Service) Project(userID, goalID string) (*SimulationResult, error) {
	snapshot, err := s.snapshots.GetLatest(userID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, domain.NotFoundf("portfolio snapshot for user %s", userID)
	}

	metrics, err := s.risk.GetLatest(userID)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, domain.NotFoundf("risk metrics for user %s", userID)
	}

	goal, err := s.goals.GetByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, domain.NotFoundf("goal %s for user %s", goalID, userID)
	}

	// Sharpe ratio times volatility approximates the expected excess
	// return. Kept exactly for output parity with prior runs.
	expectedReturn := metrics.SharpeRatio * metrics.Volatility

	years := goal.TargetDate.Sub(s.now()).Hours() / 24 / daysPerYear
	if years < MinYears {
		years = MinYears
	}

	paths, err := s.simulator.Simulate(
		snapshot.TotalValue,
		expectedReturn,
		metrics.Volatility,
		years,
		SimulationCount,
		s.factory,
	)
	if err != nil {
		return nil, err
	}

	terminals := simulation.TerminalValues(paths)

	reached := 0
	for _, terminal := range terminals {
		if terminal >= goal.TargetAmount {
			reached++
		}
	}

	result := &SimulationResult{
		GoalID:               goal.ID,
		UserID:               userID,
		NumSimulations:       SimulationCount,
		GoalProbability:      float64(reached) / float64(len(terminals)),
		MedianProjection:     simulation.NearestRank(terminals, 0.50),
		WorstCaseProjection:  simulation.NearestRank(terminals, 0.10),
		BestCaseProjection:   simulation.NearestRank(terminals, 0.90),
		DriftAssumption:      expectedReturn,
		VolatilityAssumption: metrics.Volatility,
		CreatedAt:            s.now(),
	}

	if err := s.results.Create(result); err != nil {
		s.log.Error().
			Str("goal_id", goalID).
			Err(err).
			Msg("Failed to persist simulation result")
	} else {
		s.events.Emit(events.SimulationCompleted, "projection", map[string]interface{}{
			"user_id":          userID,
			"goal_id":          goalID,
			"goal_probability": result.GoalProbability,
		})
	}

	return result, nil
}

// LatestResult returns the most recent stored projection for a goal, or nil
func (s *Service) LatestResult(goalID string) (*SimulationResult, error) {
	return s.results.GetLatest(goalID)
}
