package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization basis for daily data.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64
// values. Fewer than two samples have no spread, not an undefined one.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// Returns converts a chronological price series to simple periodic returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// TotalReturn calculates the cumulative simple return over a chronological
// price series, or 0 if the series is too short.
func TotalReturn(prices []float64) float64 {
	if len(prices) < 2 || prices[0] == 0 {
		return 0
	}
	return (prices[len(prices)-1] - prices[0]) / prices[0]
}

// Clamp bounds v to the [lo, hi] interval.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
