// Package randx provides the deterministic random stream the generation
// pipeline draws from. Every draw consumes and advances a single seeded
// source, so the order of calls is part of the reproducibility contract.
package randx

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Stream wraps a seeded pseudo-random source with the distribution draws
// the generator needs. It is not safe for concurrent use; the pipeline is
// single-threaded by design.
type Stream struct {
	r *rand.Rand
}

// New returns a stream seeded with the given value. Equal seeds yield equal
// draw sequences.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform real in [0, 1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a uniform real in [lo, hi). Panics if hi < lo.
func (s *Stream) Uniform(lo, hi float64) float64 {
	if hi < lo {
		panic(fmt.Sprintf("randx: invalid uniform range [%v, %v)", lo, hi))
	}
	return lo + (hi-lo)*s.r.Float64()
}

// Intn returns a uniform integer in [0, n). Panics if n <= 0.
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// IntBetween returns a uniform integer in [lo, hi], both ends inclusive.
// Panics if hi < lo.
func (s *Stream) IntBetween(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("randx: invalid integer range [%d, %d]", lo, hi))
	}
	return lo + s.r.Intn(hi-lo+1)
}

// WeightedIndex returns an index drawn with probability proportional to
// weights[i]. Weights must be non-negative with a positive sum; zero-weight
// entries are never selected. Panics on an empty or all-zero vector, which
// configuration validation rules out before generation starts.
func (s *Stream) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) {
			panic(fmt.Sprintf("randx: negative weight %v", w))
		}
		total += w
	}
	if total <= 0 {
		panic("randx: weight vector has no mass")
	}
	target := s.r.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	// Floating-point accumulation can leave target at the upper edge; the
	// last positive-weight entry takes it.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	panic("randx: weight vector has no mass")
}

// Poisson returns a draw from a Poisson distribution with the given mean,
// using Knuth's product method. A non-positive mean yields 0.
func (s *Stream) Poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= s.r.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// Zipf returns a power-law integer k >= 1 with exponent shape. Larger
// shapes concentrate mass near 1; occasional draws are orders of magnitude
// larger, which is what produces hub entities. Panics if shape <= 1.
func (s *Stream) Zipf(shape float64) uint64 {
	if shape <= 1 {
		panic(fmt.Sprintf("randx: Zipf shape must be > 1, got %v", shape))
	}
	z := rand.NewZipf(s.r, shape, 1, math.MaxInt32)
	return z.Uint64() + 1
}

// LogNormal returns exp(N(mu, sigma)): a positive, right-skewed real.
func (s *Stream) LogNormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*s.r.NormFloat64())
}

// Pareto returns a draw from a Lomax-form Pareto distribution with the
// given shape: support [0, inf), heavy-tailed for shapes near 1. Panics if
// shape <= 0.
func (s *Stream) Pareto(shape float64) float64 {
	if shape <= 0 {
		panic(fmt.Sprintf("randx: Pareto shape must be > 0, got %v", shape))
	}
	u := s.r.Float64()
	return math.Pow(1-u, -1/shape) - 1
}

// DateBetween returns a uniform calendar date in [start, end], both ends
// inclusive, at UTC midnight. Panics if end precedes start.
func (s *Stream) DateBetween(start, end time.Time) time.Time {
	start = midnightUTC(start)
	end = midnightUTC(end)
	if end.Before(start) {
		panic(fmt.Sprintf("randx: invalid date range [%s, %s]", start.Format(time.DateOnly), end.Format(time.DateOnly)))
	}
	days := int(end.Sub(start) / (24 * time.Hour))
	return start.AddDate(0, 0, s.r.Intn(days+1))
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
