package advisor

import (
	"github.com/stavrosk/wealth-compass/internal/modules/returns"
	"github.com/stavrosk/wealth-compass/pkg/formulas"
)

// Regime classification thresholds
const (
	regimeHighRatio = 1.5
	regimeLowRatio  = 0.6

	// Absolute short-term volatility thresholds, used when the long-term
	// series is too thin for a meaningful ratio
	regimeHighAbsolute = 0.25
	regimeLowAbsolute  = 0.08

	// Minimum observations for each estimate
	minShortObservations = 5
	minLongObservations  = 2 * returns.ShortWindow
)

// ClassifyRegime compares annualized volatility over the last 21 observations
// against the last 252. Ratio above 1.5 means volatility is elevated, below
// 0.6 means it is unusually calm. With too little long-term history the
// classifier falls back to absolute thresholds on short-term volatility.
func ClassifyRegime(observations []returns.Observation) MarketRegime {
	if len(observations) < minShortObservations {
		return RegimeNormal
	}

	short := observations
	if len(short) > returns.ShortWindow {
		short = short[:returns.ShortWindow]
	}
	shortVol := formulas.AnnualizedVolatility(returns.Values(short))

	if len(observations) < minLongObservations {
		switch {
		case shortVol > regimeHighAbsolute:
			return RegimeHighVolatility
		case shortVol < regimeLowAbsolute:
			return RegimeLowVolatility
		default:
			return RegimeNormal
		}
	}

	longVol := formulas.AnnualizedVolatility(returns.Values(observations))
	if longVol == 0 {
		return RegimeNormal
	}

	ratio := shortVol / longVol
	switch {
	case ratio > regimeHighRatio:
		return RegimeHighVolatility
	case ratio < regimeLowRatio:
		return RegimeLowVolatility
	default:
		return RegimeNormal
	}
}
