package advisor

// MarketRegime is a coarse classification of current volatility relative to
// historical volatility.
type MarketRegime string

const (
	RegimeNormal         MarketRegime = "NORMAL"
	RegimeHighVolatility MarketRegime = "HIGH_VOLATILITY"
	RegimeLowVolatility  MarketRegime = "LOW_VOLATILITY"
)

// Tolerance scale bounds. Recommendations always land in [1,10].
const (
	MinTolerance     = 1.0
	MaxTolerance     = 10.0
	DefaultTolerance = 5.0 // neutral midpoint when no optimization run exists
)

// Recommendation is the advisor's output: a suggested risk tolerance with
// the reasons that produced it.
type Recommendation struct {
	CurrentTolerance   float64      `json:"current_tolerance"`
	SuggestedTolerance float64      `json:"suggested_tolerance"`
	Delta              float64      `json:"delta"`
	Confidence         float64      `json:"confidence"`
	MarketRegime       MarketRegime `json:"market_regime"`
	Reasons            []string     `json:"reasons"`
}
