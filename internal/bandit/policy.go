package bandit

import (
	"time"

	"golang.org/x/exp/rand"
)

// SelectionPolicy is implemented by every arm selection strategy.
type SelectionPolicy interface {
	SelectArm() (*Arm, error)
	ProbabilityDistribution() []float64
}

// Source supplies uniform random draws. *rand.Rand from golang.org/x/exp/rand
// and from math/rand both satisfy it.
type Source interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// Intn returns a number in [0, n). n > 0.
	Intn(n int) int
}

func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newTimeSource() *rand.Rand {
	return NewSource(uint64(time.Now().UTC().UnixNano()))
}
