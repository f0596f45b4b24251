package projection

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavrosk/wealth-compass/internal/database"
	"github.com/stavrosk/wealth-compass/internal/domain"
	"github.com/stavrosk/wealth-compass/internal/events"
	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/risk"
	"github.com/stavrosk/wealth-compass/internal/modules/simulation"
)

var projectionNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type projectionFixture struct {
	db      *database.DB
	service *Service
}

func newProjectionFixture(t *testing.T) *projectionFixture {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := zerolog.Nop()
	service := NewService(
		simulation.New(log),
		NewGoalRepository(db.Conn(), log),
		NewResultRepository(db.Conn(), log),
		portfolio.NewSnapshotRepository(db.Conn(), log),
		risk.NewRepository(db.Conn(), log),
		events.NewManager(log),
		simulation.NewGaussianFactory(42),
		log,
	)
	service.now = func() time.Time { return projectionNow }

	return &projectionFixture{db: db, service: service}
}

func (f *projectionFixture) seedUser(t *testing.T, userID string, totalValue, volatility, sharpe float64) {
	t.Helper()

	_, err := f.db.Exec(
		`INSERT INTO portfolio_snapshots (user_id, date, total_value, cash_balance) VALUES (?, ?, ?, 0)`,
		userID, projectionNow.Format("2006-01-02"), totalValue,
	)
	require.NoError(t, err)

	_, err = f.db.Exec(
		`INSERT INTO risk_metrics (user_id, volatility, sharpe_ratio, calculated_at) VALUES (?, ?, ?, ?)`,
		userID, volatility, sharpe, projectionNow.Format(time.RFC3339),
	)
	require.NoError(t, err)
}

func (f *projectionFixture) seedGoal(t *testing.T, goalID, userID string, amount float64, target time.Time) {
	t.Helper()
	_, err := f.db.Exec(
		`INSERT INTO goals (id, user_id, name, target_amount, target_date, priority) VALUES (?, ?, 'test goal', ?, ?, 1)`,
		goalID, userID, amount, target.Format(time.RFC3339),
	)
	require.NoError(t, err)
}

func TestProjectMissingInputs(t *testing.T) {
	f := newProjectionFixture(t)

	t.Run("no snapshot", func(t *testing.T) {
		_, err := f.service.Project("ghost", "g1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no risk metrics", func(t *testing.T) {
		_, err := f.db.Exec(
			`INSERT INTO portfolio_snapshots (user_id, date, total_value, cash_balance) VALUES ('u2', ?, 50000, 0)`,
			projectionNow.Format("2006-01-02"),
		)
		require.NoError(t, err)

		_, err = f.service.Project("u2", "g1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no goal", func(t *testing.T) {
		f.seedUser(t, "u3", 50000, 0.15, 1.0)
		_, err := f.service.Project("u3", "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("goal owned by someone else", func(t *testing.T) {
		f.seedUser(t, "u4", 50000, 0.15, 1.0)
		f.seedGoal(t, "g4", "other-user", 100000, projectionNow.AddDate(5, 0, 0))
		_, err := f.service.Project("u4", "g4")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectEasyGoalIsNearCertain(t *testing.T) {
	f := newProjectionFixture(t)
	f.seedUser(t, "u1", 100000, 0.10, 1.2)
	f.seedGoal(t, "g1", "u1", 50000, projectionNow.AddDate(10, 0, 0))

	result, err := f.service.Project("u1", "g1")
	require.NoError(t, err)

	assert.Equal(t, SimulationCount, result.NumSimulations)
	assert.Greater(t, result.GoalProbability, 0.95)
	assert.InDelta(t, 0.12, result.DriftAssumption, 1e-9) // sharpe * volatility
	assert.Equal(t, 0.10, result.VolatilityAssumption)
	assert.LessOrEqual(t, result.WorstCaseProjection, result.MedianProjection)
	assert.LessOrEqual(t, result.MedianProjection, result.BestCaseProjection)
}

func TestProjectUnreachableGoal(t *testing.T) {
	f := newProjectionFixture(t)
	f.seedUser(t, "u1", 1000, 0.10, 0.5)
	f.seedGoal(t, "g1", "u1", 100000000, projectionNow.AddDate(1, 0, 0))

	result, err := f.service.Project("u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.GoalProbability)
}

func TestProjectPastDueGoalUsesMinimumHorizon(t *testing.T) {
	f := newProjectionFixture(t)
	f.seedUser(t, "u1", 100000, 0.10, 1.0)
	f.seedGoal(t, "g1", "u1", 90000, projectionNow.AddDate(-1, 0, 0))

	result, err := f.service.Project("u1", "g1")
	require.NoError(t, err)

	// At a ~3-step horizon the portfolio barely moves, so the median stays
	// near the starting value and the already-met goal is near certain.
	assert.InDelta(t, 100000, result.MedianProjection, 2500)
	assert.Greater(t, result.GoalProbability, 0.99)
}

func TestProjectIsReproducibleAndAppendsHistory(t *testing.T) {
	f := newProjectionFixture(t)
	f.seedUser(t, "u1", 100000, 0.18, 0.8)
	f.seedGoal(t, "g1", "u1", 150000, projectionNow.AddDate(5, 0, 0))

	first, err := f.service.Project("u1", "g1")
	require.NoError(t, err)
	second, err := f.service.Project("u1", "g1")
	require.NoError(t, err)

	// Same seed, same inputs: identical outcomes
	assert.Equal(t, first.GoalProbability, second.GoalProbability)
	assert.Equal(t, first.MedianProjection, second.MedianProjection)

	var count int
	err = f.db.QueryRow(`SELECT COUNT(*) FROM simulation_results WHERE goal_id = 'g1'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	latest, err := f.service.LatestResult("g1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, first.GoalProbability, latest.GoalProbability)
}
