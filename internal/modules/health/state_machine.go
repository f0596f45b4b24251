package health

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/domain"
	"github.com/stavrosk/wealth-compass/internal/events"
	"github.com/stavrosk/wealth-compass/pkg/formulas"
)

// StateMachine validates and records portfolio health state transitions
type StateMachine struct {
	states *StateRepository
	events *events.Manager
	log    zerolog.Logger
	now    func() time.Time
}

// NewStateMachine creates a new portfolio health state machine
func NewStateMachine(states *StateRepository, eventManager *events.Manager, log zerolog.Logger) *StateMachine {
	return &StateMachine{
		states: states,
		events: eventManager,
		log:    log.With().Str("service", "health").Logger(),
		now:    time.Now,
	}
}

// CurrentState returns the most recent state record for a user, or a
// synthetic HEALTHY record for users with no history.
func (m *StateMachine) CurrentState(userID string) (*StateRecord, error) {
	record, err := m.states.GetLatest(userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &StateRecord{
			UserID:    userID,
			State:     InitialState,
			UpdatedAt: m.now(),
		}, nil
	}
	return record, nil
}

// Transition validates newState against the current state and, when legal,
// appends a new state record. History is never rewritten.
func (m *StateMachine) Transition(userID string, newState State, healthIndex *float64) (*StateRecord, error) {
	if !newState.IsValid() {
		return nil, domain.InvalidInputf("unknown state %q", newState)
	}
	if healthIndex != nil {
		clamped := formulas.Clamp(*healthIndex, 0, 100)
		healthIndex = &clamped
	}

	current, err := m.CurrentState(userID)
	if err != nil {
		return nil, err
	}

	if !current.State.CanTransitionTo(newState) {
		return nil, domain.InvalidTransitionf("%s -> %s", current.State, newState)
	}

	record := &StateRecord{
		UserID:      userID,
		State:       newState,
		HealthIndex: healthIndex,
		UpdatedAt:   m.now(),
	}

	if err := m.states.Create(record); err != nil {
		return nil, err
	}

	m.events.Emit(events.StateChanged, "health", map[string]interface{}{
		"user_id": userID,
		"from":    string(current.State),
		"to":      string(newState),
	})

	return record, nil
}
