package health

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/risk"
)

// SnapshotHistoryWindow bounds the value series the evaluator reads.
const SnapshotHistoryWindow = 90

// Evaluator recomputes health indices and steps user state machines toward
// the state their index calls for. Registered with the scheduler to run
// nightly.
type Evaluator struct {
	machine   *StateMachine
	snapshots *portfolio.SnapshotRepository
	risk      *risk.Repository
	log       zerolog.Logger
}

// NewEvaluator creates a new health evaluator job
func NewEvaluator(
	machine *StateMachine,
	snapshots *portfolio.SnapshotRepository,
	riskRepo *risk.Repository,
	log zerolog.Logger,
) *Evaluator {
	return &Evaluator{
		machine:   machine,
		snapshots: snapshots,
		risk:      riskRepo,
		log:       log.With().Str("job", "health_evaluation").Logger(),
	}
}

// Name returns the job name
func (e *Evaluator) Name() string {
	return "health_evaluation"
}

// Run evaluates every user with snapshot history. One user failing does not
// stop the others.
func (e *Evaluator) Run() error {
	users, err := e.listUsers()
	if err != nil {
		return err
	}

	for _, userID := range users {
		if err := e.evaluateUser(userID); err != nil {
			e.log.Warn().
				Str("user_id", userID).
				Err(err).
				Msg("Health evaluation failed for user")
		}
	}

	e.log.Info().Int("users", len(users)).Msg("Health evaluation completed")
	return nil
}

// EvaluateUser recomputes one user's health index and applies at most one
// legal transition toward the target state.
func (e *Evaluator) EvaluateUser(userID string) (*StateRecord, error) {
	snapshots, err := e.snapshots.GetHistory(userID, SnapshotHistoryWindow)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(snapshots))
	for i, s := range snapshots {
		values[i] = s.TotalValue
	}

	metrics, err := e.risk.GetLatest(userID)
	if err != nil {
		return nil, err
	}

	index := ComputeIndex(values, metrics)
	target := TargetState(index)

	current, err := e.machine.CurrentState(userID)
	if err != nil {
		return nil, err
	}

	next := StepToward(current.State, target)
	if next == current.State {
		return current, nil
	}

	return e.machine.Transition(userID, next, &index)
}

func (e *Evaluator) evaluateUser(userID string) error {
	_, err := e.EvaluateUser(userID)
	return err
}

func (e *Evaluator) listUsers() ([]string, error) {
	rows, err := e.machine.states.db.Query("SELECT DISTINCT user_id FROM portfolio_snapshots")
	if err != nil {
		return nil, fmt.Errorf("failed to list users with snapshots: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}

	return users, nil
}
