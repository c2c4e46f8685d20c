package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exports round outcomes and the bandit state after each round.
type Collector struct {
	rounds      *prometheus.CounterVec
	reward      prometheus.Histogram
	totalReward prometheus.Gauge
	average     *prometheus.GaugeVec
	probability *prometheus.GaugeVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		rounds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bandit_rounds_total",
			Help: "Rounds played, by selected arm.",
		}, []string{"arm"}),
		reward: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bandit_reward",
			Help:    "Rewards observed for selected arms.",
			Buckets: prometheus.LinearBuckets(-1, 0.5, 10),
		}),
		totalReward: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bandit_total_reward",
			Help: "Sum of every reward applied to the bandit.",
		}),
		average: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bandit_arm_average_reward",
			Help: "Running average reward per arm.",
		}, []string{"arm"}),
		probability: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bandit_arm_probability",
			Help: "Probability of selecting each arm under the current state.",
		}, []string{"arm"}),
	}
}

func (c *Collector) ObserveRound(arm int, reward float64) {
	c.rounds.WithLabelValues(strconv.Itoa(arm)).Inc()
	c.reward.Observe(reward)
}

// ObserveState sets per-arm gauges; averages and probabilities are in arm index order.
func (c *Collector) ObserveState(totalReward float64, averages []float64, probabilities []float64) {
	c.totalReward.Set(totalReward)

	for arm, value := range averages {
		c.average.WithLabelValues(strconv.Itoa(arm)).Set(value)
	}

	for arm, value := range probabilities {
		c.probability.WithLabelValues(strconv.Itoa(arm)).Set(value)
	}
}
