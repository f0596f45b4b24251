package health

import "time"

// State is a discrete portfolio health state
type State string

const (
	StateHealthy         State = "HEALTHY"
	StateDriftWarning    State = "DRIFT_WARNING"
	StateRebalanceNeeded State = "REBALANCE_NEEDED"
	StateRiskAlert       State = "RISK_ALERT"
	StateCritical        State = "CRITICAL"
)

// InitialState is the state of a user with no recorded history
const InitialState = StateHealthy

// allowedTransitions is the directed transition graph. No other edge is
// permitted; escalation to CRITICAL always passes through RISK_ALERT, and
// recovery from CRITICAL always passes back through RISK_ALERT.
var allowedTransitions = map[State][]State{
	StateHealthy:         {StateDriftWarning, StateRiskAlert},
	StateDriftWarning:    {StateHealthy, StateRebalanceNeeded, StateRiskAlert},
	StateRebalanceNeeded: {StateHealthy, StateRiskAlert},
	StateRiskAlert:       {StateHealthy, StateCritical},
	StateCritical:        {StateRiskAlert},
}

// IsValid reports whether s is a known state
func (s State) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> next is in the graph
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StateRecord is one immutable entry in the per-user state history
type StateRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	State       State     `json:"state"`
	HealthIndex *float64  `json:"health_index,omitempty"` // [0,100]
	UpdatedAt   time.Time `json:"updated_at"`
}
