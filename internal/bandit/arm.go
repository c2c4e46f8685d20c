package bandit

// Arm keeps the running statistics of one option.
type Arm struct {
	index         int
	count         int
	averageReward float64
}

// ArmStats is a read-only snapshot of an Arm.
type ArmStats struct {
	Index         int     `json:"index"`
	Count         int     `json:"count"`
	AverageReward float64 `json:"average_reward"`
}

func newArm(index int) *Arm {
	return &Arm{index: index}
}

func (a *Arm) Index() int {
	return a.index
}

func (a *Arm) Count() int {
	return a.count
}

func (a *Arm) AverageReward() float64 {
	return a.averageReward
}

// update folds one reward into the running average without keeping past
// samples. Arms handed out by a policy are read-only; rewards go through
// ArmSet.Update or the policy's Update.
func (a *Arm) update(reward float64) {
	a.averageReward = (float64(a.count)*a.averageReward + reward) / float64(a.count+1)
	a.count++
}

func (a *Arm) Stats() ArmStats {
	return ArmStats{Index: a.index, Count: a.count, AverageReward: a.averageReward}
}
