package bandit

import (
	"fmt"
	"math"
	"sync"

	"github.com/Fuchsoria/epsilon-bandit/internal/accumulate"
)

// EpsilonGreedy exploits the best arm with probability 1-epsilon and otherwise
// picks any arm, the best one included, uniformly at random.
type EpsilonGreedy struct {
	mu      sync.Mutex
	arms    *ArmSet
	epsilon float64
	rand    Source
}

var _ SelectionPolicy = &EpsilonGreedy{}

// NewEpsilonGreedy builds a policy over numberArms arms. A nil src falls back
// to a time-seeded generator.
func NewEpsilonGreedy(numberArms int, epsilon float64, src Source) (*EpsilonGreedy, error) {
	if math.IsNaN(epsilon) || epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("%w, received %v", ErrInvalidEpsilon, epsilon)
	}

	arms, err := NewArmSet(numberArms)
	if err != nil {
		return nil, err
	}

	if src == nil {
		src = newTimeSource()
	}

	return &EpsilonGreedy{arms: arms, epsilon: epsilon, rand: src}, nil
}

func (e *EpsilonGreedy) Epsilon() float64 {
	return e.epsilon
}

func (e *EpsilonGreedy) SelectArm() (*Arm, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.arms.Len() == 0 {
		return nil, ErrEmptyBandit
	}

	if e.rand.Float64() >= e.epsilon {
		return e.arms.BestArm()
	}

	return e.arms.Arm(e.rand.Intn(e.arms.Len()))
}

func (e *EpsilonGreedy) BestArm() (*Arm, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.arms.BestArm()
}

func (e *EpsilonGreedy) Update(arm *Arm, reward float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.arms.Update(arm, reward)
}

// ProbabilityDistribution returns, in index order, the chance that SelectArm
// returns each arm given the current best arm.
func (e *EpsilonGreedy) ProbabilityDistribution() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.distribution()
}

func (e *EpsilonGreedy) CumulativeProbabilityDistribution() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return accumulate.Slice(e.distribution())
}

func (e *EpsilonGreedy) TotalReward() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.arms.TotalReward()
}

func (e *EpsilonGreedy) Arms() []ArmStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.arms.Arms()
}

func (e *EpsilonGreedy) distribution() []float64 {
	n := e.arms.Len()
	if n == 0 {
		return []float64{}
	}

	best, err := e.arms.BestArm()
	if err != nil {
		return []float64{}
	}

	pOther := e.epsilon / float64(n)
	pBest := (1 - e.epsilon) + pOther

	probabilities := make([]float64, n)
	for i := range probabilities {
		probabilities[i] = pOther
	}

	probabilities[best.Index()] = pBest

	return probabilities
}
