package bandit

import "fmt"

// ArmSet is the storage shared by selection policies: a fixed, ordered set of
// arms and the total of every reward applied to them. It is not safe for
// concurrent use on its own; policies guard it.
type ArmSet struct {
	arms        []*Arm
	totalReward float64
}

func NewArmSet(numberArms int) (*ArmSet, error) {
	if numberArms < 0 {
		return nil, fmt.Errorf("%w, received %d", ErrInvalidArmCount, numberArms)
	}

	arms := make([]*Arm, numberArms)
	for i := range arms {
		arms[i] = newArm(i)
	}

	return &ArmSet{arms: arms}, nil
}

func (s *ArmSet) Len() int {
	return len(s.arms)
}

func (s *ArmSet) TotalReward() float64 {
	return s.totalReward
}

// BestArm returns the arm with the highest average reward. Ties go to the
// lowest index.
func (s *ArmSet) BestArm() (*Arm, error) {
	if len(s.arms) == 0 {
		return nil, ErrEmptyBandit
	}

	best := s.arms[0]

	for _, arm := range s.arms[1:] {
		if arm.averageReward > best.averageReward {
			best = arm
		}
	}

	return best, nil
}

func (s *ArmSet) Update(arm *Arm, reward float64) error {
	if !s.owns(arm) {
		return ErrUnknownArm
	}

	arm.update(reward)
	s.totalReward += reward

	return nil
}

// Arm returns the arm at index.
func (s *ArmSet) Arm(index int) (*Arm, error) {
	if index < 0 || index >= len(s.arms) {
		return nil, fmt.Errorf("%w, index %d", ErrUnknownArm, index)
	}

	return s.arms[index], nil
}

func (s *ArmSet) Arms() []ArmStats {
	stats := make([]ArmStats, len(s.arms))
	for i, arm := range s.arms {
		stats[i] = arm.Stats()
	}

	return stats
}

func (s *ArmSet) owns(arm *Arm) bool {
	return arm != nil && arm.index >= 0 && arm.index < len(s.arms) && s.arms[arm.index] == arm
}
