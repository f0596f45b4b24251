package projection

import "time"

// Goal is a savings target owned by a user
type Goal struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	TargetAmount float64   `json:"target_amount"` // > 0
	TargetDate   time.Time `json:"target_date"`
	Priority     int       `json:"priority"`
}

// SimulationResult is one immutable projection run for a goal
type SimulationResult struct {
	ID                   string    `json:"id"`
	GoalID               string    `json:"goal_id"`
	UserID               string    `json:"user_id"`
	NumSimulations       int       `json:"number_of_simulations"`
	GoalProbability      float64   `json:"goal_probability"` // [0,1]
	MedianProjection     float64   `json:"median_projection"`
	WorstCaseProjection  float64   `json:"worst_case_projection"` // 10th percentile
	BestCaseProjection   float64   `json:"best_case_projection"`  // 90th percentile
	DriftAssumption      float64   `json:"drift_assumption"`
	VolatilityAssumption float64   `json:"volatility_assumption"`
	CreatedAt            time.Time `json:"created_at"`
}
