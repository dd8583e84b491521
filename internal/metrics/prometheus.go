package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"haa-backtest/internal/data"
	"haa-backtest/internal/model"
)

// Recorder implements backtest.Observer using Prometheus.
type Recorder struct {
	steps        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	stepDuration prometheus.Histogram
}

// New registers the backtest metrics on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		steps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "haa_steps_total",
				Help: "Evaluation steps completed, by regime",
			},
			[]string{"regime"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "haa_step_failures_total",
				Help: "Evaluation steps that failed, by reason",
			},
			[]string{"reason"},
		),
		dropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "haa_instruments_dropped_total",
				Help: "Instruments left out of a price panel, by ticker and load status",
			},
			[]string{"ticker", "reason"},
		),
		stepDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "haa_step_duration_seconds",
				Help:    "Duration of one evaluation step in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (r *Recorder) StepEvaluated(regime model.Regime, d time.Duration) {
	r.steps.WithLabelValues(string(regime)).Inc()
	r.stepDuration.Observe(d.Seconds())
}

func (r *Recorder) StepFailed(reason string, d time.Duration) {
	r.failures.WithLabelValues(reason).Inc()
	r.stepDuration.Observe(d.Seconds())
}

func (r *Recorder) InstrumentDropped(ticker string, status data.LoadStatus) {
	r.dropped.WithLabelValues(ticker, strings.ToLower(string(status))).Inc()
}
