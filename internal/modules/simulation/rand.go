package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalSource produces standard normal variates for a single simulation path.
// Implementations are not safe for concurrent use; every path gets its own
// source from a SourceFactory.
type NormalSource interface {
	Norm() float64
}

// SourceFactory returns an independent NormalSource for a path index.
// Factories derive per-path state deterministically from the path index, so a
// fixed seed reproduces identical paths regardless of worker scheduling.
type SourceFactory func(path int) NormalSource

// GaussianSource draws standard normal variates from gonum's Normal
// distribution over a seeded PCG stream. This is the default strategy.
type GaussianSource struct {
	dist distuv.Normal
}

// Norm returns the next standard normal variate.
func (g *GaussianSource) Norm() float64 {
	return g.dist.Rand()
}

// NewGaussianFactory returns a factory producing one seeded Gaussian source
// per path. The path index is mixed into the PCG stream so paths are
// independent but individually reproducible.
func NewGaussianFactory(seed uint64) SourceFactory {
	return func(path int) NormalSource {
		return &GaussianSource{
			dist: distuv.Normal{
				Mu:    0,
				Sigma: 1,
				Src:   rand.NewPCG(seed, uint64(path)),
			},
		}
	}
}

// BoxMullerSource generates standard normal variates with the Box-Muller
// transform over a seeded uniform stream. Kept as the documented alternative
// to the gonum sampler; both strategies are interchangeable behind
// NormalSource.
type BoxMullerSource struct {
	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

// NewBoxMullerFactory returns a factory producing one seeded Box-Muller
// source per path.
func NewBoxMullerFactory(seed uint64) SourceFactory {
	return func(path int) NormalSource {
		return &BoxMullerSource{
			rng: rand.New(rand.NewPCG(seed, uint64(path))),
		}
	}
}

// Norm returns the next standard normal variate. Each transform yields two
// variates; the second is cached for the next call.
func (b *BoxMullerSource) Norm() float64 {
	if b.hasSpare {
		b.hasSpare = false
		return b.spare
	}

	u1 := b.rng.Float64()
	for u1 == 0 {
		u1 = b.rng.Float64()
	}
	u2 := b.rng.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2

	b.spare = r * math.Sin(theta)
	b.hasSpare = true

	return r * math.Cos(theta)
}
