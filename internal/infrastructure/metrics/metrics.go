// Package metrics holds the prometheus collectors of the load pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes.
const (
	OutcomeOK                = "ok"
	OutcomeNotFound          = "not_found"
	OutcomeTypeMismatch      = "type_mismatch"
	OutcomeMissingDependency = "missing_dependency"
	OutcomeConsistency       = "consistency"
	OutcomeError             = "error"
)

// Type lookup results.
const (
	LookupHit    = "hit"
	LookupMiss   = "miss"
	LookupAbsent = "absent"
)

// Metrics tracks item loads, catalog lookups and imports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ItemLoads       *prometheus.CounterVec
	LoadDuration    *prometheus.HistogramVec
	TypeLookups     *prometheus.CounterVec
	ImportedRecords *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ItemLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "universe_item_loads_total",
			Help: "Total number of item loads by kind and outcome",
		}, []string{"kind", "outcome"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "universe_item_load_duration_seconds",
			Help:    "Duration of item loads, including contents when recursing",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
		TypeLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "universe_type_lookups_total",
			Help: "Type catalog lookups by result (hit, miss, absent)",
		}, []string{"result"}),
		ImportedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "universe_imported_records_total",
			Help: "Records written by imports, by record kind",
		}, []string{"kind"}),
	}
}

// ObserveLoad records one load. Call with time.Now() at the start of the load.
func (m *Metrics) ObserveLoad(kind, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ItemLoads.WithLabelValues(kind, outcome).Inc()
	m.LoadDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// RecordTypeLookup records one catalog lookup.
func (m *Metrics) RecordTypeLookup(result string) {
	if m == nil {
		return
	}
	m.TypeLookups.WithLabelValues(result).Inc()
}

// AddImported records n imported records of the given kind.
func (m *Metrics) AddImported(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ImportedRecords.WithLabelValues(kind).Add(float64(n))
}
