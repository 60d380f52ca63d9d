package draft

import "math/rand"

// defaultSeed is used when no random source is supplied, so an unconfigured
// Partition is reproducible.
const defaultSeed int64 = 1

// Option applies a configuration option to a Partition call.
type Option func(*settings)

type settings struct {
	rng        *rand.Rand
	groupCount int
}

// WithRand sets the random source used for the pre-sort shuffle. The source
// is not goroutine-safe and must not be shared between concurrent calls.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds a private random source. Seed 0 selects the default seed.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		if seed == 0 {
			seed = defaultSeed
		}
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // shuffling only, not security sensitive
	}
}

// WithGroupCount forces the number of groups instead of deriving it from the
// roster size. Values below 1 are ignored.
func WithGroupCount(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.groupCount = n
		}
	}
}
