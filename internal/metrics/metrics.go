// Package metrics exports Prometheus metrics for assignment runs.
package metrics

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Recorder counts runs and their results. It implements ports.RunRecorder.
type Recorder struct {
	runs     *prometheus.CounterVec
	jobs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers the metrics with reg. Pass prometheus.DefaultRegisterer
// to expose them through promhttp.Handler.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_runs_total",
				Help: "Assignment runs by trigger and outcome.",
			},
			[]string{"trigger", "outcome"},
		),
		jobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_jobs_total",
				Help: "Jobs processed by trigger and result status.",
			},
			[]string{"trigger", "status"}, // assigned, unassigned
		),
		// 1ms to ~16s
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_run_duration_seconds",
				Help:    "Wall time of an assignment run in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"trigger"},
		),
	}
}

func (r *Recorder) RecordRun(trigger string, results []assignment.Result, elapsed time.Duration, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	r.runs.WithLabelValues(trigger, outcome).Inc()
	r.duration.WithLabelValues(trigger).Observe(elapsed.Seconds())

	var assigned, unassigned int
	for _, res := range results {
		if res.IsAssigned() {
			assigned++
		} else {
			unassigned++
		}
	}
	r.jobs.WithLabelValues(trigger, "assigned").Add(float64(assigned))
	r.jobs.WithLabelValues(trigger, "unassigned").Add(float64(unassigned))
}
