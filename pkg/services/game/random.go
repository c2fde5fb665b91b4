package game

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the source of reward randomness. It is injected so tests
// can script exact draws and assert reward bounds.
type Random interface {
	// IntBetween returns a uniform draw from [min, max] inclusive.
	IntBetween(min, max int64) int64

	// Chance returns true with probability p.
	Chance(p float64) bool
}

type mathRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a Random backed by math/rand, seeded from the
// clock.
func NewRandom() Random {
	return &mathRandom{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (m *mathRandom) IntBetween(min, max int64) int64 {
	if max <= min {
		return min
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return min + m.r.Int63n(max-min+1)
}

func (m *mathRandom) Chance(p float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.Float64() < p
}
