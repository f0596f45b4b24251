package health

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
)

func newTestMachine(t *testing.T) *StateMachine {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := zerolog.Nop()
	machine := NewStateMachine(NewStateRepository(db.Conn(), log), events.NewManager(log), log)

	// Advancing clock so appended records order deterministically even at
	// second-resolution timestamps.
	clock := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	machine.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return machine
}

func TestCurrentStateDefaultsToHealthy(t *testing.T) {
	machine := newTestMachine(t)

	record, err := machine.CurrentState("fresh-user")
	require.NoError(t, err)
	assert.Equal(t, StateHealthy, record.State)
	assert.Empty(t, record.ID) // synthetic, nothing persisted
}

func TestTransitionLegalEdge(t *testing.T) {
	machine := newTestMachine(t)

	index := 62.0
	record, err := machine.Transition("u1", StateDriftWarning, &index)
	require.NoError(t, err)
	assert.Equal(t, StateDriftWarning, record.State)
	require.NotNil(t, record.HealthIndex)
	assert.Equal(t, 62.0, *record.HealthIndex)

	current, err := machine.CurrentState("u1")
	require.NoError(t, err)
	assert.Equal(t, StateDriftWarning, current.State)
	assert.NotEmpty(t, current.ID)
}

func TestTransitionRejectsSkippedEscalation(t *testing.T) {
	machine := newTestMachine(t)

	_, err := machine.Transition("u1", StateCritical, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Nothing was appended
	current, err := machine.CurrentState("u1")
	require.NoError(t, err)
	assert.Equal(t, StateHealthy, current.State)
}

func TestTransitionRejectsUnknownState(t *testing.T) {
	machine := newTestMachine(t)

	_, err := machine.Transition("u1", State("PANIC"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecoveryFromCriticalGoesThroughRiskAlert(t *testing.T) {
	machine := newTestMachine(t)

	for _, s := range []State{StateRiskAlert, StateCritical} {
		_, err := machine.Transition("u1", s, nil)
		require.NoError(t, err)
	}

	// Direct recovery is not an edge
	_, err := machine.Transition("u1", StateHealthy, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Two sequential calls succeed
	_, err = machine.Transition("u1", StateRiskAlert, nil)
	require.NoError(t, err)
	record, err := machine.Transition("u1", StateHealthy, nil)
	require.NoError(t, err)
	assert.Equal(t, StateHealthy, record.State)
}

func TestTransitionClampsHealthIndex(t *testing.T) {
	machine := newTestMachine(t)

	index := 140.0
	record, err := machine.Transition("u1", StateDriftWarning, &index)
	require.NoError(t, err)
	require.NotNil(t, record.HealthIndex)
	assert.Equal(t, 100.0, *record.HealthIndex)
}

func TestTransitionHistoryIsAppendOnly(t *testing.T) {
	machine := newTestMachine(t)

	_, err := machine.Transition("u1", StateDriftWarning, nil)
	require.NoError(t, err)
	_, err = machine.Transition("u1", StateHealthy, nil)
	require.NoError(t, err)

	var count int
	err = machine.states.db.QueryRow(
		`SELECT COUNT(*) FROM portfolio_states WHERE user_id = ?`, "u1",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCanTransitionToMatrix(t *testing.T) {
	tests := []struct {
		from, to State
		allowed  bool
	}{
		{StateHealthy, StateDriftWarning, true},
		{StateHealthy, StateRiskAlert, true},
		{StateHealthy, StateRebalanceNeeded, false},
		{StateHealthy, StateCritical, false},
		{StateDriftWarning, StateHealthy, true},
		{StateDriftWarning, StateRebalanceNeeded, true},
		{StateDriftWarning, StateCritical, false},
		{StateRebalanceNeeded, StateHealthy, true},
		{StateRebalanceNeeded, StateDriftWarning, false},
		{StateRiskAlert, StateCritical, true},
		{StateRiskAlert, StateHealthy, true},
		{StateRiskAlert, StateDriftWarning, false},
		{StateCritical, StateRiskAlert, true},
		{StateCritical, StateHealthy, false},
		{StateHealthy, StateHealthy, false}, // self-loops are not edges
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
