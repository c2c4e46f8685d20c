package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Fuchsoria/epsilon-bandit/internal/bandit"
	"github.com/Fuchsoria/epsilon-bandit/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type App struct {
	logger    Logger
	policy    Policy
	source    RewardSource
	storage   Storage
	publisher Publisher
	metrics   Metrics
}

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	GetInstance() *zap.Logger
}

type Policy interface {
	bandit.SelectionPolicy
	Update(arm *bandit.Arm, reward float64) error
	CumulativeProbabilityDistribution() []float64
	TotalReward() float64
	Arms() []bandit.ArmStats
	Epsilon() float64
}

type RewardSource interface {
	Reward(ctx context.Context, arm int) (float64, error)
}

type Storage interface {
	CreateRun(ctx context.Context, run storage.RunItem) error
	AddRound(ctx context.Context, round storage.RoundItem) error
	GetRounds(ctx context.Context, runID string) ([]storage.RoundItem, error)
}

type Publisher interface {
	Publish(event interface{}) error
}

type Metrics interface {
	ObserveRound(arm int, reward float64)
	ObserveState(totalReward float64, averages []float64, probabilities []float64)
}

// RoundEvent is published once per round.
type RoundEvent struct {
	RunID       string  `json:"run_id"`
	Round       int     `json:"round"`
	Arm         int     `json:"arm"`
	Reward      float64 `json:"reward"`
	TotalReward float64 `json:"total_reward"`
}

type Summary struct {
	RunID        string            `json:"run_id"`
	Rounds       int               `json:"rounds"`
	Distribution []float64         `json:"distribution"`
	Cumulative   []float64         `json:"cumulative"`
	TotalReward  float64           `json:"total_reward"`
	Arms         []bandit.ArmStats `json:"arms"`
}

// New wires the round driver. publisher and metrics may be nil.
func New(logger Logger, policy Policy, source RewardSource, storage Storage, publisher Publisher, metrics Metrics) *App {
	return &App{logger, policy, source, storage, publisher, metrics}
}

func (a *App) GetLogger() Logger {
	return a.logger
}

func (a *App) GetStorage() Storage {
	return a.storage
}

// Run plays rounds sequentially. On cancellation it returns the summary of the
// rounds played so far along with ctx.Err().
func (a *App) Run(ctx context.Context, rounds int) (Summary, error) {
	runID := uuid.NewString()

	err := a.storage.CreateRun(ctx, storage.RunItem{
		ID:        runID,
		Arms:      len(a.policy.Arms()),
		Epsilon:   a.policy.Epsilon(),
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("cannot create run, %w", err)
	}

	a.logger.Info("run started", "run_id", runID, "rounds", rounds, "epsilon", a.policy.Epsilon())

	played := 0

	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return a.summary(runID, played), err
		}

		if err := a.playRound(ctx, runID, round); err != nil {
			return a.summary(runID, played), err
		}

		played++
	}

	summary := a.summary(runID, played)
	a.logger.Info("run finished", "run_id", runID, "rounds", played, "total_reward", summary.TotalReward)

	return summary, nil
}

func (a *App) playRound(ctx context.Context, runID string, round int) error {
	arm, err := a.policy.SelectArm()
	if err != nil {
		return fmt.Errorf("cannot select arm, %w", err)
	}

	reward, err := a.source.Reward(ctx, arm.Index())
	if err != nil {
		return fmt.Errorf("cannot get reward in round %d, %w", round, err)
	}

	if err := a.policy.Update(arm, reward); err != nil {
		return fmt.Errorf("cannot update bandit, %w", err)
	}

	err = a.storage.AddRound(ctx, storage.RoundItem{
		RunID:     runID,
		Round:     round,
		Arm:       arm.Index(),
		Reward:    reward,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("cannot save round %d, %w", round, err)
	}

	totalReward := a.policy.TotalReward()

	if a.publisher != nil {
		event := RoundEvent{RunID: runID, Round: round, Arm: arm.Index(), Reward: reward, TotalReward: totalReward}
		if err := a.publisher.Publish(event); err != nil {
			a.logger.Warn("cannot publish round event", "run_id", runID, "round", round, "error", err.Error())
		}
	}

	if a.metrics != nil {
		a.metrics.ObserveRound(arm.Index(), reward)
		a.metrics.ObserveState(totalReward, averages(a.policy.Arms()), a.policy.ProbabilityDistribution())
	}

	a.logger.Debug("round played", "run_id", runID, "round", round, "arm", arm.Index(), "reward", reward)

	return nil
}

func (a *App) summary(runID string, played int) Summary {
	return Summary{
		RunID:        runID,
		Rounds:       played,
		Distribution: a.policy.ProbabilityDistribution(),
		Cumulative:   a.policy.CumulativeProbabilityDistribution(),
		TotalReward:  a.policy.TotalReward(),
		Arms:         a.policy.Arms(),
	}
}

func averages(arms []bandit.ArmStats) []float64 {
	values := make([]float64, len(arms))
	for i, arm := range arms {
		values[i] = arm.AverageReward
	}

	return values
}
