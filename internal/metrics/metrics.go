// Package metrics exposes Prometheus metrics about graph builds and pass
// executions.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/passgraph/internal/passgraph"
)

const namespace = "passgraph"

// Recorder holds the Prometheus collectors for one application.
type Recorder struct {
	builds        *prometheus.CounterVec
	buildFailures *prometheus.CounterVec
	buildDuration prometheus.Histogram
	passes        prometheus.Gauge
	levels        prometheus.Gauge
	queues        prometheus.Gauge
	waits         prometheus.Gauge
	executions    *prometheus.CounterVec
	execDuration  *prometheus.HistogramVec
}

// NewRecorder creates unregistered collectors.
func NewRecorder() *Recorder {
	return &Recorder{
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Total number of graph builds by result.",
			},
			[]string{"result"},
		),
		buildFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "build_failures_total",
				Help:      "Total number of failed graph builds by reason.",
			},
			[]string{"reason"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of graph builds in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
		),
		passes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "passes",
			Help:      "Number of passes in the last built graph.",
		}),
		levels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_levels",
			Help:      "Number of dependency levels in the last built graph.",
		}),
		queues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queues",
			Help:      "Number of queues in the last built graph.",
		}),
		waits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cross_queue_waits",
			Help:      "Number of cross-queue waits left after culling in the last built graph.",
		}),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pass_executions_total",
				Help:      "Total number of simulated pass executions by queue and result.",
			},
			[]string{"queue", "result"},
		),
		execDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pass_execution_duration_seconds",
				Help:      "Duration of simulated pass executions in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"queue"},
		),
	}
}

// MustRegister registers the collectors with registry.
func (m *Recorder) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(
		m.builds,
		m.buildFailures,
		m.buildDuration,
		m.passes,
		m.levels,
		m.queues,
		m.waits,
		m.executions,
		m.execDuration,
	)
}

// ObserveBuild records one Build call on c. Plan gauges are updated only on
// success.
func (m *Recorder) ObserveBuild(c *passgraph.Compiler, d time.Duration, err error) {
	m.buildDuration.Observe(d.Seconds())
	if err != nil {
		m.builds.WithLabelValues("error").Inc()
		m.buildFailures.WithLabelValues(FailureReason(err)).Inc()
		return
	}
	m.builds.WithLabelValues("success").Inc()

	waits := 0
	for _, n := range c.Nodes() {
		waits += len(n.NodesToSyncWith())
	}
	m.passes.Set(float64(len(c.Nodes())))
	m.levels.Set(float64(len(c.DependencyLevels())))
	m.queues.Set(float64(c.QueueCount()))
	m.waits.Set(float64(waits))
}

// ObservePass records one simulated execution of node.
func (m *Recorder) ObservePass(node *passgraph.PassNode, d time.Duration, err error) {
	queue := strconv.Itoa(node.QueueIndex())
	result := "success"
	if err != nil {
		result = "error"
	}
	m.executions.WithLabelValues(queue, result).Inc()
	m.execDuration.WithLabelValues(queue).Observe(d.Seconds())
}

// FailureReason classifies a build error for the reason label.
func FailureReason(err error) string {
	var (
		cycle    *passgraph.CycleError
		dupPass  *passgraph.DuplicatePassError
		dupWrite *passgraph.DuplicateWriteError
		invalid  *passgraph.InvalidPassError
		handle   *passgraph.InvalidHandleError
	)
	switch {
	case errors.As(err, &cycle):
		return "cycle"
	case errors.As(err, &dupPass):
		return "duplicate_pass"
	case errors.As(err, &dupWrite):
		return "duplicate_write"
	case errors.As(err, &invalid), errors.As(err, &handle):
		return "invalid_pass"
	default:
		return "other"
	}
}
