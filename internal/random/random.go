// internal/random/random.go
//
// Random helpers shared by the field generator.
//   - Int: uniform draw in a half-open range [min, max).
//   - Shuffle: in-place Fisher–Yates.
//
// Every helper takes an explicit Source so tests and the daily mode can
// replay a sequence from a fixed seed.

package random

import "math/rand/v2"

// Source is the subset of *rand.Rand the helpers need.
type Source interface {
	IntN(n int) int
}

// globalSource forwards to the process-wide math/rand/v2 generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default returns a Source backed by the auto-seeded global generator.
func Default() Source { return globalSource{} }

// New returns a deterministic Source for the given seed.
func New(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Int returns a uniformly distributed integer in [lo, hi).
// The range must not be empty.
func Int(src Source, hi, lo int) int {
	return lo + src.IntN(hi-lo)
}

// Shuffle permutes s in place and returns it.
func Shuffle[T any](src Source, s []T) []T {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
	return s
}
