package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrUnknownRewardSource = errors.New("unknown reward source")
	ErrInvalidRewardConfig = errors.New("invalid reward config")
)

const (
	rewardSourceHTTP      = "http"
	rewardSourceSimulated = "simulated"
)

type Config struct {
	Logger  LoggerConf  `mapstructure:"logger"`
	Bandit  BanditConf  `mapstructure:"bandit"`
	Reward  RewardConf  `mapstructure:"reward"`
	DB      DBConf      `mapstructure:"db"`
	AMQP    AMQPConf    `mapstructure:"amqp"`
	Metrics MetricsConf `mapstructure:"metrics"`
}

type LoggerConf struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type BanditConf struct {
	Arms    int     `mapstructure:"arms"`
	Epsilon float64 `mapstructure:"epsilon"`
	Rounds  int     `mapstructure:"rounds"`
	Seed    uint64  `mapstructure:"seed"`
}

type RewardConf struct {
	Source   string        `mapstructure:"source"`
	URL      string        `mapstructure:"url"`
	Type     string        `mapstructure:"type"`
	Username string        `mapstructure:"username"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Rate     float64       `mapstructure:"rate"`
	Burst    int           `mapstructure:"burst"`
	Means    []float64     `mapstructure:"means"`
	Sigma    float64       `mapstructure:"sigma"`
}

type DBConf struct {
	ConnectionString string `mapstructure:"connectionString"`
}

type AMQPConf struct {
	URI   string `mapstructure:"uri"`
	Queue string `mapstructure:"queue"`
}

type MetricsConf struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func NewConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("bandit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read config file %s, %w", configFile, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("cannot decode config, %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", "")
	v.SetDefault("bandit.arms", 10)
	v.SetDefault("bandit.epsilon", 0.2)
	v.SetDefault("bandit.rounds", 100)
	v.SetDefault("bandit.seed", 0)
	v.SetDefault("reward.source", rewardSourceHTTP)
	v.SetDefault("reward.url", "http://bandit-server.elasticbeanstalk.com")
	v.SetDefault("reward.type", "0")
	v.SetDefault("reward.username", "Isla")
	v.SetDefault("reward.timeout", 10*time.Second)
	v.SetDefault("reward.rate", 0)
	v.SetDefault("reward.burst", 1)
	v.SetDefault("reward.sigma", 1.0)
	v.SetDefault("db.connectionString", "")
	v.SetDefault("amqp.uri", "")
	v.SetDefault("amqp.queue", "epsilon-bandit")
	v.SetDefault("metrics.host", "0.0.0.0")
	v.SetDefault("metrics.port", 0)
}

func (c Config) validate() error {
	switch c.Reward.Source {
	case rewardSourceHTTP, rewardSourceSimulated:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRewardSource, c.Reward.Source)
	}

	if c.Reward.Sigma < 0 {
		return fmt.Errorf("%w: sigma should not be negative, received %v", ErrInvalidRewardConfig, c.Reward.Sigma)
	}

	if c.Reward.Burst < 0 {
		return fmt.Errorf("%w: burst should not be negative, received %d", ErrInvalidRewardConfig, c.Reward.Burst)
	}

	if c.Bandit.Rounds < 0 {
		return fmt.Errorf("rounds should not be negative, received %d", c.Bandit.Rounds)
	}

	return nil
}
