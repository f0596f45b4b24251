package formulas

// MaxDrawdown calculates the maximum peak-to-trough drawdown of a
// chronological value series.
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns
//
// Returns the drawdown as a positive fraction (0.25 = 25% loss from peak),
// or nil if the series is too short.
func MaxDrawdown(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}

// CurrentDrawdown calculates the drawdown of the last value relative to the
// running peak of a chronological value series. Returns 0 for short series.
func CurrentDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	peak := values[0]
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	if peak <= 0 {
		return 0
	}
	return (peak - values[len(values)-1]) / peak
}
