// Package metrics holds the Prometheus metrics for enrollment validation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the enrollment-domain Prometheus collectors.
type Metrics struct {
	ValidationsTotal  *prometheus.CounterVec
	ValidationSeconds prometheus.Histogram
	ExceedanceChecks  *prometheus.CounterVec
}

// New creates and registers the enrollment metrics.
func New() *Metrics {
	return &Metrics{
		ValidationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sppg_enrollment_validations_total",
			Help: "Enrollment validation runs by result; failures are labeled with the failing check's code.",
		}, []string{"result", "code"}),
		ValidationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sppg_enrollment_validation_duration_seconds",
			Help:    "Duration of full enrollment validation runs, external reads included.",
			Buckets: prometheus.DefBuckets,
		}),
		ExceedanceChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sppg_budget_exceedance_checks_total",
			Help: "Budget exceedance queries by outcome.",
		}, []string{"outcome"}),
	}
}

// RecordValidationPass counts a successful validation run.
func (m *Metrics) RecordValidationPass() {
	m.ValidationsTotal.WithLabelValues("pass", "").Inc()
}

// RecordValidationFailure counts a rejected validation run by code.
func (m *Metrics) RecordValidationFailure(code string) {
	m.ValidationsTotal.WithLabelValues("fail", code).Inc()
}

// RecordExceedanceCheck counts one exceedance query.
func (m *Metrics) RecordExceedanceCheck(exceeded bool) {
	outcome := "within_budget"
	if exceeded {
		outcome = "exceeded"
	}
	m.ExceedanceChecks.WithLabelValues(outcome).Inc()
}
