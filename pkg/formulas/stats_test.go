package formulas

import (
	"math"
	"testing"
)

func TestReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := Returns(prices)

	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}
	if math.Abs(returns[0]-0.10) > 1e-9 {
		t.Errorf("Expected first return 0.10, got %f", returns[0])
	}
	if math.Abs(returns[1]-(-0.10)) > 1e-9 {
		t.Errorf("Expected second return -0.10, got %f", returns[1])
	}
}

func TestReturnsShortSeries(t *testing.T) {
	if got := Returns([]float64{100}); len(got) != 0 {
		t.Errorf("Expected empty returns for single price, got %v", got)
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	// Constant returns have zero deviation
	flat := []float64{0.01, 0.01, 0.01, 0.01}
	if got := AnnualizedVolatility(flat); got != 0 {
		t.Errorf("Expected zero volatility for constant returns, got %f", got)
	}

	// Annualization multiplies daily stdev by sqrt(252)
	daily := []float64{0.01, -0.01, 0.01, -0.01}
	want := StdDev(daily) * math.Sqrt(252)
	if got := AnnualizedVolatility(daily); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %f, got %f", want, got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"simple peak to trough", []float64{100, 120, 90, 110}, 0.25},
		{"monotonic rise", []float64{100, 110, 120}, 0.0},
		{"full series trough", []float64{100, 50}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.values)
			if got == nil {
				t.Fatal("Expected drawdown, got nil")
			}
			if math.Abs(*got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, *got)
			}
		})
	}
}

func TestMaxDrawdownShortSeries(t *testing.T) {
	if got := MaxDrawdown([]float64{100}); got != nil {
		t.Errorf("Expected nil for short series, got %f", *got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("Expected 100, got %f", got)
	}
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Errorf("Expected 42, got %f", got)
	}
}
