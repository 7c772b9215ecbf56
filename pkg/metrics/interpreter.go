package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InterpreterMetrics provides observability for sendstream replay.
//
// Implementations collect metrics about command batches received by the
// subvolume ledger and the individual commands the interpreter applies.
//
// This interface is optional - the ledger accepts nil and proceeds without
// metrics collection (zero overhead).
type InterpreterMetrics interface {
	// RecordBatch records a completed (or failed) command batch with its
	// outcome ("ok", "invariant_violated", "missing_parent", "apply_failed")
	// and the time interpretation took.
	RecordBatch(outcome string, duration time.Duration)

	// RecordCommand records one applied command by name (e.g. "mkdir").
	RecordCommand(command string)

	// RecordSkippedCommand records one unrecognized command that was
	// skipped with a diagnostic rather than applied.
	RecordSkippedCommand(command string)

	// SetSubvolumes updates the count of completed subvolumes in the ledger.
	SetSubvolumes(count int)
}

// noopInterpreterMetrics discards all observations.
type noopInterpreterMetrics struct{}

func (noopInterpreterMetrics) RecordBatch(string, time.Duration) {}
func (noopInterpreterMetrics) RecordCommand(string)              {}
func (noopInterpreterMetrics) RecordSkippedCommand(string)       {}
func (noopInterpreterMetrics) SetSubvolumes(int)                 {}

// NewNoopInterpreterMetrics returns an InterpreterMetrics that does nothing.
func NewNoopInterpreterMetrics() InterpreterMetrics {
	return noopInterpreterMetrics{}
}

// interpreterMetrics is the Prometheus implementation of InterpreterMetrics.
type interpreterMetrics struct {
	batchesTotal         *prometheus.CounterVec
	batchDuration        prometheus.Histogram
	commandsTotal        *prometheus.CounterVec
	commandsSkippedTotal *prometheus.CounterVec
	subvolumes           prometheus.Gauge
}

// NewInterpreterMetrics creates a Prometheus-backed InterpreterMetrics.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry
// not called).
func NewInterpreterMetrics() InterpreterMetrics {
	if !IsEnabled() {
		return NewNoopInterpreterMetrics()
	}

	reg := GetRegistry()

	return &interpreterMetrics{
		batchesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sendfs_batches_total",
				Help: "Total number of command batches received by the ledger, by outcome",
			},
			[]string{"outcome"},
		),
		batchDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sendfs_batch_duration_milliseconds",
				Help:    "Time spent interpreting one command batch in milliseconds",
				Buckets: []float64{1, 10, 100, 1000, 10000},
			},
		),
		commandsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sendfs_commands_total",
				Help: "Total number of commands applied by the interpreter, by command",
			},
			[]string{"command"},
		),
		commandsSkippedTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sendfs_commands_skipped_total",
				Help: "Total number of unrecognized commands skipped, by command",
			},
			[]string{"command"},
		),
		subvolumes: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "sendfs_subvolumes",
				Help: "Number of completed subvolumes in the ledger",
			},
		),
	}
}

func (m *interpreterMetrics) RecordBatch(outcome string, duration time.Duration) {
	m.batchesTotal.WithLabelValues(outcome).Inc()
	m.batchDuration.Observe(float64(duration.Milliseconds()))
}

func (m *interpreterMetrics) RecordCommand(command string) {
	m.commandsTotal.WithLabelValues(command).Inc()
}

func (m *interpreterMetrics) RecordSkippedCommand(command string) {
	m.commandsSkippedTotal.WithLabelValues(command).Inc()
}

func (m *interpreterMetrics) SetSubvolumes(count int) {
	m.subvolumes.Set(float64(count))
}
