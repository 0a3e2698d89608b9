package domain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

const metricsNamespace = "mutator"

var tracer = otel.Tracer("mutator.domain")

// Metrics holds the counters of one process. Every run registers into its
// own registry so tests and repeated runs never collide.
type Metrics struct {
	registry *prometheus.Registry

	outcomes   *prometheus.CounterVec
	duration   prometheus.Histogram
	busy       prometheus.Gauge
	candidates *prometheus.CounterVec
}

// NewMetrics creates the collectors in a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "test",
			Name:      "outcomes_total",
			Help:      "Mutants tested, by outcome status.",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "test",
			Name:      "duration_seconds",
			Help:      "Wall time of one test command run.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
		}),
		busy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "test",
			Name:      "workers_busy",
			Help:      "Workers currently running a job.",
		}),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "generate",
			Name:      "candidates_total",
			Help:      "Generated candidates, by generator and verdict.",
		}, []string{"generator", "verdict"}),
	}
}

// Registry exposes the registry for exporters and tests.
func (mx *Metrics) Registry() *prometheus.Registry {
	return mx.registry
}

// WriteTextfile writes the current values in the text exposition format,
// as consumed by the node exporter textfile collector.
func (mx *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, mx.registry)
}

func (mx *Metrics) observeOutcome(outcome m.Outcome) {
	mx.outcomes.WithLabelValues(outcome.Status.String()).Inc()

	if outcome.Duration > 0 {
		mx.duration.Observe(outcome.Duration.Seconds())
	}
}

func (mx *Metrics) jobStarted() { mx.busy.Inc() }

func (mx *Metrics) jobFinished() { mx.busy.Dec() }

func (mx *Metrics) observeCandidate(generator, verdict string) {
	mx.candidates.WithLabelValues(generator, verdict).Inc()
}
