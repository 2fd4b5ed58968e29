package gacha

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource yields floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	// top 53 bits
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// DefaultRNG is backed by crypto/rand.
func DefaultRNG() RandomSource { return cryptoRNG{} }

type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRNG is reproducible, for tests and simulations.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// IntN returns a uniform int in [0, n).
func IntN(rng RandomSource, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports true with probability 1/odds.
func Chance(rng RandomSource, odds int) bool {
	if odds <= 0 {
		return false
	}
	return rng.Float64() < 1/float64(odds)
}
