// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpsertsTotal counts catalog writes by ingredient kind and outcome
	// (insert, update, noop).
	UpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcat_upserts_total",
		Help: "Catalog upserts by ingredient kind and outcome.",
	}, []string{"kind", "outcome"})

	// FieldConflictsTotal counts composed-vs-canonical disagreements that
	// were recorded but not applied.
	FieldConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcat_field_conflicts_total",
		Help: "Field-level conflicts between composed and canonical data.",
	}, []string{"kind"})

	// FactsRejectedTotal counts ingestion facts dropped by validation.
	FactsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brewcat_facts_rejected_total",
		Help: "Ingestion facts rejected by validation.",
	})

	// UncertainUnitsTotal counts fact values stored with a best-guess unit
	// conversion because no policy step could settle the source unit.
	UncertainUnitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewcat_uncertain_units_total",
		Help: "Fact values stored with an unresolved unit.",
	}, []string{"kind", "parameter"})

	// HTTPRequestDuration observes API latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewcat_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
