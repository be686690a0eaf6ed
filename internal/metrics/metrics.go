package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Answer outcomes used as the "result" label.
const (
	ResultCorrect   = "correct"
	ResultWrong     = "wrong"
	ResultExhausted = "exhausted"
)

// Collectors groups the game metrics exported on /metrics.
type Collectors struct {
	GamesStarted   prometheus.Counter
	Answers        *prometheus.CounterVec
	SequenceLength prometheus.Histogram
	SessionsActive prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flagquiz",
			Name:      "games_started_total",
			Help:      "Sequences started.",
		}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flagquiz",
			Name:      "answers_total",
			Help:      "Answers submitted, by result.",
		}, []string{"result"}),
		SequenceLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flagquiz",
			Name:      "sequence_length",
			Help:      "Level reached when a sequence ends.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flagquiz",
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.GamesStarted, c.Answers, c.SequenceLength, c.SessionsActive)
	}
	return c
}

// IncStarted counts one started sequence.
func (c *Collectors) IncStarted() {
	if c == nil {
		return
	}
	c.GamesStarted.Inc()
}

// ObserveAnswer records one answer and, when the sequence ended, its final level.
func (c *Collectors) ObserveAnswer(result string, ended bool, level int) {
	if c == nil {
		return
	}
	c.Answers.WithLabelValues(result).Inc()
	if ended {
		c.SequenceLength.Observe(float64(level))
	}
}
