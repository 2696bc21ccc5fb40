// Package entropy hands out the random streams used by the simulation.
// Every stream is seeded explicitly so runs can be replayed; only an unset
// seed (0) reaches for crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
)

// Stream offsets keep the generator, the map and each agent on separate
// sequences derived from one run seed.
const (
	OffsetMap    int64 = 100
	OffsetAgents int64 = 300
)

// NewSeed returns a non-zero seed from crypto/rand.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but keep going with a fixed seed.
		slog.Warn("crypto seed unavailable, using fixed seed", "error", err)
		return 1
	}
	// Clear the sign bit so seeds print as positive numbers.
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		return 1
	}
	return seed
}

// Resolve returns seed, or a fresh crypto seed when seed is 0.
func Resolve(seed int64) int64 {
	if seed == 0 {
		seed = NewSeed()
		slog.Debug("drew random seed", "seed", seed)
	}
	return seed
}

// Derive returns the seed of the n-th stream at offset from seed.
func Derive(seed, offset int64, n int) int64 {
	return seed + offset + int64(n)
}

// New returns a *rand.Rand for seed (0 draws a crypto seed).
func New(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(Resolve(seed)))
}
