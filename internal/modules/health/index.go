package health

import (
	"github.com/stavrosk/wealth-compass/internal/modules/risk"
	"github.com/stavrosk/wealth-compass/pkg/formulas"
)

// Health index calibration. The index starts from a perfect 100 and loses
// points for drawdown, excess volatility and weak momentum.
const (
	drawdownPenaltyWeight  = 200.0 // 10% current drawdown costs 20 points
	volatilityBaseline     = 0.20
	volatilityPenaltyScale = 150.0 // each 10% of vol above baseline costs 15 points
	rsiPeriod              = 14
	rsiOversold            = 30.0
	rsiPenaltyWeight       = 0.5 // up to 15 points for deeply oversold momentum
)

// ComputeIndex derives the 0-100 health index from the recent portfolio
// value series (chronological, up to 90 points) and the latest risk metrics.
// Sparse history yields a neutral index rather than an error.
func ComputeIndex(values []float64, metrics *risk.Metrics) float64 {
	if len(values) < 2 {
		return 75 // Not enough history to judge; lean healthy
	}

	index := 100.0

	index -= formulas.CurrentDrawdown(values) * drawdownPenaltyWeight

	if metrics != nil && metrics.Volatility > volatilityBaseline {
		index -= (metrics.Volatility - volatilityBaseline) * volatilityPenaltyScale
	}

	if rsi := formulas.RSI(values, rsiPeriod); rsi != nil && *rsi < rsiOversold {
		index -= (rsiOversold - *rsi) * rsiPenaltyWeight
	}

	return formulas.Clamp(index, 0, 100)
}

// TargetState maps a health index to the state the portfolio should be in
func TargetState(index float64) State {
	switch {
	case index >= 75:
		return StateHealthy
	case index >= 55:
		return StateDriftWarning
	case index >= 40:
		return StateRebalanceNeeded
	case index >= 25:
		return StateRiskAlert
	default:
		return StateCritical
	}
}

// severity orders states from benign to critical for pathfinding in the
// transition graph
var severity = map[State]int{
	StateHealthy:         0,
	StateDriftWarning:    1,
	StateRebalanceNeeded: 2,
	StateRiskAlert:       3,
	StateCritical:        4,
}

// StepToward returns the next legal state on the way from current to target.
// When the direct edge exists the target itself is returned; otherwise the
// allowed neighbor whose severity is closest to the target's. Returns
// current when no move is needed.
func StepToward(current, target State) State {
	if current == target {
		return current
	}
	if current.CanTransitionTo(target) {
		return target
	}

	best := current
	bestDistance := severityDistance(current, target)
	for _, neighbor := range allowedTransitions[current] {
		if d := severityDistance(neighbor, target); d < bestDistance {
			best = neighbor
			bestDistance = d
		}
	}
	return best
}

func severityDistance(a, b State) int {
	d := severity[a] - severity[b]
	if d < 0 {
		d = -d
	}
	return d
}
