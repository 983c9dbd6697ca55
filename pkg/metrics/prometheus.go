package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder implements domain repository.Metrics using Prometheus.
// The pipeline is a batch process, so metrics are pushed to a gateway
// at the end of a cycle rather than scraped.
type Recorder struct {
	registry      *prometheus.Registry
	cyclesTotal   *prometheus.CounterVec
	busyness      prometheus.Gauge
	anomaliesSeen *prometheus.CounterVec
	stageLatency  *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder on its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busyness_pipeline_cycles_total",
				Help: "Total pipeline cycles by completion status",
			},
			[]string{"status"},
		),
		busyness: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "busyness_score",
				Help: "Busyness score of the most recent cycle",
			},
		),
		anomaliesSeen: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busyness_anomalies_total",
				Help: "Anomaly events emitted, by type and severity",
			},
			[]string{"type", "severity"},
		),
		stageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "busyness_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
	reg.MustRegister(r.cyclesTotal, r.busyness, r.anomaliesSeen, r.stageLatency)
	return r
}

// RecordCycle records a completed pipeline cycle.
func (r *Recorder) RecordCycle(status string) {
	r.cyclesTotal.WithLabelValues(status).Inc()
}

// RecordBusyness records the current busyness score.
func (r *Recorder) RecordBusyness(score float64) {
	r.busyness.Set(score)
}

// RecordAnomaly records an emitted anomaly event.
func (r *Recorder) RecordAnomaly(kind, severity string) {
	r.anomaliesSeen.WithLabelValues(kind, severity).Inc()
}

// RecordStageLatency records a stage duration in seconds.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}

// Push sends the registry's current state to a Pushgateway. A no-op
// when url is empty.
func (r *Recorder) Push(url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(r.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
