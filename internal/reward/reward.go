package reward

import (
	"context"
	"errors"
)

var ErrUnknownArm = errors.New("no reward distribution for arm")

// Source returns the reward observed for pulling an arm.
type Source interface {
	Reward(ctx context.Context, arm int) (float64, error)
}
