package reward

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Simulated draws rewards locally from one normal distribution per arm.
type Simulated struct {
	mu    sync.Mutex
	arms  []distuv.Normal
	means []float64
}

// NewSimulated builds numberArms normal distributions with the given sigma.
// Means missing from means are drawn uniformly from [0, 1).
func NewSimulated(numberArms int, means []float64, sigma float64, seed uint64) *Simulated {
	src := rand.NewSource(seed)
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}

	arms := make([]distuv.Normal, numberArms)
	armMeans := make([]float64, numberArms)

	for i := range arms {
		mean := uniform.Rand()
		if i < len(means) {
			mean = means[i]
		}

		armMeans[i] = mean
		arms[i] = distuv.Normal{Mu: mean, Sigma: sigma, Src: src}
	}

	return &Simulated{arms: arms, means: armMeans}
}

func (s *Simulated) Reward(ctx context.Context, arm int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if arm < 0 || arm >= len(s.arms) {
		return 0, fmt.Errorf("%w %d", ErrUnknownArm, arm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.arms[arm].Rand(), nil
}

// Means returns the true mean of every arm.
func (s *Simulated) Means() []float64 {
	return append([]float64(nil), s.means...)
}
