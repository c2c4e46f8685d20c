package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	simpleproducer "github.com/Fuchsoria/epsilon-bandit/internal/amqp/producer"
	"github.com/Fuchsoria/epsilon-bandit/internal/app"
	"github.com/Fuchsoria/epsilon-bandit/internal/bandit"
	"github.com/Fuchsoria/epsilon-bandit/internal/logger"
	"github.com/Fuchsoria/epsilon-bandit/internal/metrics"
	"github.com/Fuchsoria/epsilon-bandit/internal/reward"
	memorystorage "github.com/Fuchsoria/epsilon-bandit/internal/storage/memory"
	sqlstorage "github.com/Fuchsoria/epsilon-bandit/internal/storage/sql"
	"github.com/Fuchsoria/epsilon-bandit/internal/version"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"
)

var (
	configFile string
)

func init() {
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
}

func main() {
	flag.Parse()

	if flag.Arg(0) == "version" {
		version.PrintVersion()

		return
	}

	config, err := NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.New(config.Logger.Level, config.Logger.File)

	os.Exit(run(config, logg))
}

// run returns the process exit code so deferred cleanup finishes before exit.
func run(config Config, logg *logger.Logger) int {
	defer logg.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy, err := bandit.NewEpsilonGreedy(config.Bandit.Arms, config.Bandit.Epsilon, newSource(config.Bandit.Seed))
	if err != nil {
		logg.Error(err.Error())

		return 1
	}

	storage, closeStorage, err := initStorage(ctx, config)
	if err != nil {
		logg.Error(err.Error())

		return 1
	}
	defer closeStorage()

	var publisher app.Publisher

	if config.AMQP.URI != "" {
		producer, err := initProducer(config)
		if err != nil {
			logg.Error(err.Error())

			return 1
		}
		defer producer.Close()

		publisher = producer
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	var metricsServer *metrics.Server

	if config.Metrics.Port > 0 {
		metricsServer = metrics.NewServer(config.Metrics.Host, config.Metrics.Port, registry)

		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logg.Error("failed to start metrics server: " + err.Error())
			}
		}()
	}

	banditApp := app.New(logg, policy, initRewardSource(config), storage, publisher, collector)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)

		select {
		case <-ctx.Done():
			return
		case <-signals:
		}

		signal.Stop(signals)
		cancel()
	}()

	logg.Info("epsilon bandit is running...", "arms", config.Bandit.Arms, "epsilon", config.Bandit.Epsilon)

	summary, err := banditApp.Run(ctx, config.Bandit.Rounds)

	if metricsServer != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second*3)
		if err := metricsServer.Stop(stopCtx); err != nil {
			logg.Error("failed to stop metrics server: " + err.Error())
		}
		stopCancel()
	}

	switch {
	case errors.Is(err, context.Canceled):
		logg.Info("rounds interrupted", "played", summary.Rounds)
		fmt.Println()

		return 0
	case err != nil:
		logg.Error("run failed: " + err.Error())

		return 1
	}

	fmt.Println(summary.Distribution, summary.TotalReward)

	return 0
}

func newSource(seed uint64) bandit.Source {
	if seed == 0 {
		return nil
	}

	return bandit.NewSource(seed)
}

func initRewardSource(config Config) app.RewardSource {
	if config.Reward.Source == rewardSourceSimulated {
		seed := config.Bandit.Seed
		if seed == 0 {
			seed = uint64(time.Now().UTC().UnixNano())
		}

		return reward.NewSimulated(config.Bandit.Arms, config.Reward.Means, config.Reward.Sigma, seed)
	}

	return reward.NewHTTPSource(
		config.Reward.URL,
		config.Reward.Type,
		config.Reward.Username,
		config.Reward.Timeout,
		config.Reward.Rate,
		config.Reward.Burst,
	)
}

func initStorage(ctx context.Context, config Config) (app.Storage, func(), error) {
	if config.DB.ConnectionString == "" {
		return memorystorage.New(), func() {}, nil
	}

	storage, err := sqlstorage.New(ctx, config.DB.ConnectionString)
	if err != nil {
		return nil, nil, fmt.Errorf("can't create new storage instance, %w", err)
	}

	err = storage.Connect(ctx)
	if err != nil {
		storage.Close()

		return nil, nil, fmt.Errorf("can't connect to storage, %w", err)
	}

	err = storage.Init(ctx)
	if err != nil {
		storage.Close()

		return nil, nil, fmt.Errorf("cannot prepare journal tables, %w", err)
	}

	return storage, func() { storage.Close() }, nil
}

func initProducer(config Config) (*simpleproducer.Producer, error) {
	conn, err := amqp.Dial(config.AMQP.URI)
	if err != nil {
		return nil, fmt.Errorf("can't connect to amqp, %w", err)
	}

	producer := simpleproducer.New(config.AMQP.Queue, conn)

	if err := producer.Connect(); err != nil {
		return nil, fmt.Errorf("can't prepare amqp producer, %w", err)
	}

	return producer, nil
}
