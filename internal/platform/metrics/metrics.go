// Package metrics exposes prometheus counters for replay runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeApplied  = "applied"
	outcomeIgnored  = "ignored"
	outcomeRejected = "rejected"
)

// Recorder counts replay outcomes. A nil *Recorder is valid and records nothing.
type Recorder struct {
	records *prometheus.CounterVec
	skipped prometheus.Counter
	runs    prometheus.Counter
}

// NewRecorder creates a Recorder and registers its collectors with reg.
// A nil reg leaves the collectors unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "txn_processor_records_total",
			Help: "Transaction records processed, by kind, outcome and rejection reason",
		}, []string{"kind", "outcome", "reason"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txn_processor_records_skipped_total",
			Help: "Input records skipped because they could not be parsed",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txn_processor_runs_total",
			Help: "Completed replay runs",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.records, r.skipped, r.runs)
	}
	return r
}

// Applied counts a record that changed ledger state.
func (r *Recorder) Applied(kind string) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(kind, outcomeApplied, "").Inc()
}

// Ignored counts an amendment accepted without effect.
func (r *Recorder) Ignored(kind string) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(kind, outcomeIgnored, "").Inc()
}

// Rejected counts a record refused by ledger rules.
func (r *Recorder) Rejected(kind, reason string) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(kind, outcomeRejected, reason).Inc()
}

// Skipped counts an unparsable input record.
func (r *Recorder) Skipped() {
	if r == nil {
		return
	}
	r.skipped.Inc()
}

// RunCompleted counts a replay that reached the end of its input.
func (r *Recorder) RunCompleted() {
	if r == nil {
		return
	}
	r.runs.Inc()
}
