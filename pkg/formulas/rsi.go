package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSI calculates the Relative Strength Index of a chronological value series.
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Returns the most recent RSI value (0-100), or nil if there is not enough
// data for the requested period.
func RSI(values []float64, period int) *float64 {
	if len(values) < period+1 {
		return nil
	}

	// RS is undefined when the series never moves (no gains, no losses);
	// talib reports 0 there, which would read as deeply oversold.
	flat := true
	for _, v := range values[1:] {
		if v != values[0] {
			flat = false
			break
		}
	}
	if flat {
		return nil
	}

	rsi := talib.Rsi(values, period)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

func isNaN(f float64) bool {
	return f != f
}
