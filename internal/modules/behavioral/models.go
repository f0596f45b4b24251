package behavioral

import "time"

// Sub-score calibration constants. The neutral default applies whenever the
// input history is too thin to say anything; that is a documented policy, not
// an error.
const (
	NeutralScore = 50.0

	// Panic selling
	MinReturnObservations = 5
	LossDayThreshold      = -0.01 // daily return below -1%
	PanicWindowDays       = 3
	// Fixed fallback for users with a rich return history but no qualifying
	// sell actions. Midpoint of the historical 30-40 band.
	NoSellsDefault         = 35.0
	NoSellsMinObservations = 20

	// Recency bias
	MinHoldingsForRecency = 2
	RecencyWindowDays     = 30
	RecencyBiasSlope      = 300.0
	RecencyBiasBase       = 30.0

	// Risk chasing
	VolatilityBaseline = 0.15
	RiskChasingSlope   = 400.0
	RiskChasingBase    = 30.0

	// Liquidity stress band edges (months of spending covered)
	LiquidityComfortMonths = 12.0
	LiquidityDangerMonths  = 3.0
)

// Model weights for the composite score
const (
	WeightPanicSell       = 0.30
	WeightRecencyBias     = 0.25
	WeightRiskChasing     = 0.25
	WeightLiquidityStress = 0.20
)

// Features is the input snapshot the scores were computed from, stored with
// each record for auditability.
type Features struct {
	ReturnObservations     int     `json:"return_observations"`
	LossDays               int     `json:"loss_days"`
	SellActions            int     `json:"sell_actions"`
	PanicSells             int     `json:"panic_sells"`
	Holdings               int     `json:"holdings"`
	WeightedRecentReturn   float64 `json:"weighted_recent_return"`
	WeightedLongTermReturn float64 `json:"weighted_long_term_return"`
	WeightedVolatility     float64 `json:"weighted_volatility"`
	PortfolioValue         float64 `json:"portfolio_value"`
	MonthlyBurnRate        float64 `json:"monthly_burn_rate"`
	MonthsCovered          float64 `json:"months_covered"`
	Winners                int     `json:"winners"`
	Losers                 int     `json:"losers"`
}

// Weights records the composite model weights active when a score was
// computed, so historical records stay interpretable if the model changes.
type Weights struct {
	PanicSell       float64 `json:"panic_sell"`
	RecencyBias     float64 `json:"recency_bias"`
	RiskChasing     float64 `json:"risk_chasing"`
	LiquidityStress float64 `json:"liquidity_stress"`
}

// CurrentWeights returns the active composite weights
func CurrentWeights() Weights {
	return Weights{
		PanicSell:       WeightPanicSell,
		RecencyBias:     WeightRecencyBias,
		RiskChasing:     WeightRiskChasing,
		LiquidityStress: WeightLiquidityStress,
	}
}

// ScoreRecord is one immutable behavioral scoring result. All scores are in
// [0,100]; LossAversionRatio, when present, is > 0.
type ScoreRecord struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	PanicSellScore       float64   `json:"panic_sell_score"`
	RecencyBiasScore     float64   `json:"recency_bias_score"`
	RiskChasingScore     float64   `json:"risk_chasing_score"`
	LiquidityStressScore float64   `json:"liquidity_stress_score"`
	AdaptiveRiskScore    float64   `json:"adaptive_risk_score"`
	LossAversionRatio    *float64  `json:"loss_aversion_ratio,omitempty"`
	Features             Features  `json:"feature_snapshot"`
	Weights              Weights   `json:"model_weights"`
	Insights             []string  `json:"insights"`
	CalculatedAt         time.Time `json:"calculated_at"`
}
