package bandit

import "errors"

var (
	ErrInvalidEpsilon  = errors.New("epsilon should be a decimal between 0.0 and 1.0")
	ErrInvalidArmCount = errors.New("number of arms should not be negative")
	ErrEmptyBandit     = errors.New("bandit has no arms")
	ErrUnknownArm      = errors.New("arm does not belong to this bandit")
)
