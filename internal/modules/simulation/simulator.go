package simulation

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/domain"
)

const (
	// TradingDaysPerYear sets the step granularity: dt = 1/252.
	TradingDaysPerYear = 252

	// MinYears is the floor applied to non-positive or tiny horizons so a
	// simulation always runs at least one step.
	MinYears = 0.01
)

// Simulator generates Monte Carlo price paths under Geometric Brownian
// Motion. Paths are fanned out across a bounded worker pool; each worker
// writes only its own preallocated rows, so there is no shared mutable state
// between paths.
type Simulator struct {
	log zerolog.Logger
}

// New creates a new path simulator
func New(log zerolog.Logger) *Simulator {
	return &Simulator{
		log: log.With().Str("component", "simulator").Logger(),
	}
}

// Simulate generates numSimulations price paths of steps+1 points each,
// starting at initialValue.
//
// Per-step lognormal update:
//
//	V(t+1) = V(t) · exp((μ − 0.5σ²)·dt + σ·√dt·Z)
//
// with Z drawn independently per step and per path from the injected
// NormalSource. Zero volatility degenerates to deterministic exponential
// growth at μ·dt per step.
func (s *Simulator) Simulate(
	initialValue float64,
	expectedReturn float64,
	volatility float64,
	years float64,
	numSimulations int,
	factory SourceFactory,
) ([][]float64, error) {
	if initialValue <= 0 {
		return nil, domain.InvalidInputf("initial value must be positive, got %.2f", initialValue)
	}
	if volatility < 0 {
		return nil, domain.InvalidInputf("volatility must be non-negative, got %.4f", volatility)
	}
	if numSimulations <= 0 {
		return nil, domain.InvalidInputf("simulation count must be positive, got %d", numSimulations)
	}
	if factory == nil {
		return nil, domain.InvalidInputf("normal source factory is required")
	}

	if years < MinYears {
		years = MinYears
	}

	steps := int(math.Ceil(years * TradingDaysPerYear))
	dt := 1.0 / float64(TradingDaysPerYear)
	drift := (expectedReturn - 0.5*volatility*volatility) * dt
	diffusion := volatility * math.Sqrt(dt)

	paths := make([][]float64, numSimulations)

	workers := runtime.GOMAXPROCS(0)
	if workers > numSimulations {
		workers = numSimulations
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				src := factory(p)
				path := make([]float64, steps+1)
				path[0] = initialValue
				for t := 0; t < steps; t++ {
					path[t+1] = path[t] * math.Exp(drift+diffusion*src.Norm())
				}
				paths[p] = path
			}
		}()
	}

	for p := 0; p < numSimulations; p++ {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	s.log.Debug().
		Int("paths", numSimulations).
		Int("steps", steps).
		Float64("drift", drift).
		Msg("Simulation completed")

	return paths, nil
}

// TerminalValues extracts the final value of every path, sorted ascending.
// This is the reduce step feeding probability and percentile calculations.
func TerminalValues(paths [][]float64) []float64 {
	terminals := make([]float64, 0, len(paths))
	for _, path := range paths {
		if len(path) > 0 {
			terminals = append(terminals, path[len(path)-1])
		}
	}
	sort.Float64s(terminals)
	return terminals
}

// NearestRank returns the value at the nearest-rank position for percentile
// p (0..1) in an ascending-sorted sequence.
func NearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
