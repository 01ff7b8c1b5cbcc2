package dice

import (
	"math/rand"
	"sync"
)

// seededSource implements Source using a seeded math/rand generator guarded
// by a mutex. Two seededSources with the same seed produce the same draw
// sequence, which makes full battles replayable.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: identical seeds yield identical Intn sequences.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
