package app

import (
	"context"
	"errors"
	"testing"

	"github.com/Fuchsoria/epsilon-bandit/internal/bandit"
	"github.com/Fuchsoria/epsilon-bandit/internal/logger"
	"github.com/Fuchsoria/epsilon-bandit/internal/metrics"
	"github.com/Fuchsoria/epsilon-bandit/internal/reward"
	memorystorage "github.com/Fuchsoria/epsilon-bandit/internal/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats"
)

type recordingPublisher struct {
	events []interface{}
	err    error
}

func (p *recordingPublisher) Publish(event interface{}) error {
	p.events = append(p.events, event)

	return p.err
}

type failingSource struct {
	after int
	calls int
}

func (s *failingSource) Reward(_ context.Context, _ int) (float64, error) {
	s.calls++
	if s.calls > s.after {
		return 0, errors.New("reward server is down")
	}

	return 1, nil
}

type cancellingSource struct {
	cancel context.CancelFunc
	after  int
	calls  int
}

func (s *cancellingSource) Reward(_ context.Context, _ int) (float64, error) {
	s.calls++
	if s.calls == s.after {
		s.cancel()
	}

	return 1, nil
}

func newLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return logger.FromZap(zap.New(core)), logs
}

func newPolicy(t *testing.T, arms int, epsilon float64) *bandit.EpsilonGreedy {
	t.Helper()

	policy, err := bandit.NewEpsilonGreedy(arms, epsilon, bandit.NewSource(1))
	require.NoError(t, err)

	return policy
}

func TestApp(t *testing.T) {
	t.Run("test rounds are played and journaled", func(t *testing.T) {
		logg, logs := newLogger()
		policy := newPolicy(t, 4, 0.2)
		source := reward.NewSimulated(4, []float64{0.1, 0.2, 0.9, 0.3}, 0, 1)
		store := memorystorage.New()
		publisher := &recordingPublisher{}
		collector := metrics.NewCollector(prometheus.NewRegistry())

		a := New(logg, policy, source, store, publisher, collector)

		summary, err := a.Run(context.Background(), 200)
		require.NoError(t, err)

		require.Equal(t, 200, summary.Rounds)
		require.NotEmpty(t, summary.RunID)
		require.Len(t, summary.Distribution, 4)
		require.InDelta(t, 1.0, floats.Sum(summary.Distribution), 1e-9)
		require.InDelta(t, 1.0, summary.Cumulative[3], 1e-9)

		rounds, err := a.GetStorage().GetRounds(context.Background(), summary.RunID)
		require.NoError(t, err)
		require.Len(t, rounds, 200)

		total := 0.0
		for i, round := range rounds {
			require.Equal(t, i, round.Round)
			total += round.Reward
		}

		require.InDelta(t, total, summary.TotalReward, 1e-9)
		require.Len(t, publisher.events, 200)

		last, ok := publisher.events[199].(RoundEvent)
		require.True(t, ok)
		require.Equal(t, 199, last.Round)
		require.InDelta(t, summary.TotalReward, last.TotalReward, 1e-9)

		require.Equal(t, 200, logs.FilterMessage("round played").Len())
		require.Equal(t, 1, logs.FilterMessage("run finished").Len())
	})

	t.Run("test optional collaborators may be nil", func(t *testing.T) {
		logg, _ := newLogger()
		a := New(logg, newPolicy(t, 2, 0.5), reward.NewSimulated(2, nil, 1, 2), memorystorage.New(), nil, nil)

		summary, err := a.Run(context.Background(), 10)
		require.NoError(t, err)
		require.Equal(t, 10, summary.Rounds)
	})

	t.Run("test publish failure does not stop the run", func(t *testing.T) {
		logg, logs := newLogger()
		publisher := &recordingPublisher{err: errors.New("broker gone")}
		a := New(logg, newPolicy(t, 2, 0.5), reward.NewSimulated(2, nil, 1, 2), memorystorage.New(), publisher, nil)

		summary, err := a.Run(context.Background(), 3)
		require.NoError(t, err)
		require.Equal(t, 3, summary.Rounds)
		require.Equal(t, 3, logs.FilterMessage("cannot publish round event").Len())
	})

	t.Run("test reward error aborts the run", func(t *testing.T) {
		logg, _ := newLogger()
		a := New(logg, newPolicy(t, 3, 0.2), &failingSource{after: 5}, memorystorage.New(), nil, nil)

		summary, err := a.Run(context.Background(), 10)
		require.Error(t, err)
		require.Equal(t, 5, summary.Rounds)
		require.Equal(t, 5.0, summary.TotalReward)
	})

	t.Run("test empty bandit", func(t *testing.T) {
		logg, _ := newLogger()
		a := New(logg, newPolicy(t, 0, 0.2), &failingSource{}, memorystorage.New(), nil, nil)

		summary, err := a.Run(context.Background(), 1)
		require.ErrorIs(t, err, bandit.ErrEmptyBandit)
		require.Equal(t, []float64{}, summary.Distribution)
	})

	t.Run("test cancellation returns partial summary", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		logg, _ := newLogger()
		source := &cancellingSource{cancel: cancel, after: 4}
		a := New(logg, newPolicy(t, 3, 0.2), source, memorystorage.New(), nil, nil)

		summary, err := a.Run(ctx, 100)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 4, summary.Rounds)
		require.Equal(t, 4.0, summary.TotalReward)
	})
}
