// SPDX-License-Identifier: MIT
// Package: gnnwalk/metrics
//
// registry.go - instrument set and recording helpers.

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry holds the explanation instruments.
type Registry struct {
	ExplanationsTotal   *prometheus.CounterVec
	ExplanationDuration *prometheus.HistogramVec
	WalksTotal          *prometheus.CounterVec
	BatchSkippedTotal   prometheus.Counter

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// NewRegistry creates a registry with every instrument registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.ExplanationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gnnwalk_explanations_total",
			Help: "Total number of explanations computed",
		},
		[]string{"method", "task", "status"},
	)
	r.ExplanationDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gnnwalk_explanation_duration_seconds",
			Help:    "Duration of a single explanation in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"method", "task"},
	)
	r.WalksTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gnnwalk_walks_total",
			Help: "Total number of walks scored",
		},
		[]string{"method"},
	)
	r.BatchSkippedTotal = f.NewCounter(
		prometheus.CounterOpts{
			Name: "gnnwalk_batch_skipped_total",
			Help: "Items skipped because a batch ran out of time",
		},
	)

	return r
}

// Gatherer returns the underlying registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// RecordExplanation records one finished explanation.
func (r *Registry) RecordExplanation(method, task string, walks int, duration time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.ExplanationsTotal.WithLabelValues(method, task, status).Inc()
	r.ExplanationDuration.WithLabelValues(method, task).Observe(duration.Seconds())
	if walks > 0 {
		r.WalksTotal.WithLabelValues(method).Add(float64(walks))
	}
}

// RecordSkipped counts batch items dropped by the time budget.
func (r *Registry) RecordSkipped(n int) {
	if n > 0 {
		r.BatchSkippedTotal.Add(float64(n))
	}
}
