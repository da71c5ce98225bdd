package metrics

import (
	"time"

	"github.com/alecthomas/units"
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	Submitted = "submitted"
	DryRun    = "dry_run"
	Failed    = "failed"
)

// Metrics counts submissions. Each instance owns its registry so several
// managers in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	tasks           *prometheus.CounterVec
	requestedCores  *prometheus.CounterVec
	requestedMemory *prometheus.CounterVec
	submitDuration  *prometheus.HistogramVec
	lastSubmission  *prometheus.GaugeVec
}

// New returns metrics registered in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "yatamana",
				Subsystem: "jobs",
				Name:      "submissions_total",
				Help:      "Number of job submissions by outcome.",
			},
			[]string{"backend", "outcome"},
		),
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "yatamana",
				Subsystem: "tasks",
				Name:      "submitted_total",
				Help:      "Number of tasks submitted, counting every member of a chunk.",
			},
			[]string{"backend"},
		),
		requestedCores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "yatamana",
				Subsystem: "jobs",
				Name:      "requested_cores_total",
				Help:      "Cores requested by submitted jobs.",
			},
			[]string{"backend"},
		),
		requestedMemory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "yatamana",
				Subsystem: "jobs",
				Name:      "requested_memory_bytes_total",
				Help:      "Memory requested by submitted jobs, in bytes.",
			},
			[]string{"backend"},
		),
		submitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "yatamana",
				Subsystem: "jobs",
				Name:      "submit_duration_seconds",
				Help:      "Time spent running the submission command.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		lastSubmission: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "yatamana",
				Subsystem: "jobs",
				Name:      "last_submission_timestamp_seconds",
				Help:      "Time of the last successful submission.",
			},
			[]string{"backend"},
		),
	}
	m.registry.MustRegister(
		m.submissions,
		m.tasks,
		m.requestedCores,
		m.requestedMemory,
		m.submitDuration,
		m.lastSubmission,
	)
	return m
}

// Job describes a submission for the counters.
type Job struct {
	Backend  string
	Outcome  string
	Tasks    int
	Cores    int
	MemoryGB int
	Duration time.Duration
}

// Observe records a submission. Resource counters only count submitted
// jobs.
func (m *Metrics) Observe(j Job) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(j.Backend, j.Outcome).Inc()
	if j.Outcome != Submitted {
		return
	}
	m.tasks.WithLabelValues(j.Backend).Add(float64(j.Tasks))
	m.requestedCores.WithLabelValues(j.Backend).Add(float64(j.Cores))
	m.requestedMemory.WithLabelValues(j.Backend).Add(float64(j.MemoryGB) * float64(units.GiB))
	m.submitDuration.WithLabelValues(j.Backend).Observe(j.Duration.Seconds())
	m.lastSubmission.WithLabelValues(j.Backend).SetToCurrentTime()
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics to path in the Prometheus text format,
// for the node exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
