package cipher

import (
	"fmt"
	"math/rand"
	"sync"
)

// seedSpace is the exclusive upper bound of generated seeds (12 decimal digits).
const seedSpace = 1_000_000_000_000

// SeedSource generates fresh decimal seeds.
type SeedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeedSource creates a seed source backed by rng.
// A nil rng uses a randomly seeded generator.
func NewSeedSource(rng *rand.Rand) *SeedSource {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // Seeds are not secrets.
	}
	return &SeedSource{rng: rng}
}

// Next returns a uniform integer in [0, 10^12) as a 12-digit zero-padded string.
func (s *SeedSource) Next() string {
	s.mu.Lock()
	v := s.rng.Int63n(seedSpace)
	s.mu.Unlock()
	return fmt.Sprintf("%012d", v)
}

var defaultSeeds = NewSeedSource(nil)

// RandomSeed returns a fresh 12-digit seed from the shared source.
func RandomSeed() string {
	return defaultSeeds.Next()
}
