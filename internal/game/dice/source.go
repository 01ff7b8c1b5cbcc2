// Package dice provides the randomness abstraction for the scrapforce battle
// engine. Every probabilistic outcome in a battle (hit, critical, loot) is
// drawn through a Source, which keeps the engine deterministic and replayable
// when a seeded source is substituted.
package dice

import (
	"crypto/rand"
	"math/big"
)

// Source is the randomness provider for probability draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. This is the
// production source; battles driven by it are not replayable.
//
// Postcondition: Every value returned by Intn is uniformly distributed in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Percent draws a percentile roll in [0, 100) from src and reports whether it
// falls under chance. A chance <= 0 never passes; a chance >= 100 always passes.
//
// Precondition: src must be non-nil.
func Percent(src Source, chance float64) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return float64(src.Intn(100)) < chance
}
