package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLoad("solarsystem", OutcomeOK, time.Now())
	m.ObserveLoad("solarsystem", OutcomeOK, time.Now())
	m.ObserveLoad("solarsystem", OutcomeTypeMismatch, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ItemLoads.WithLabelValues("solarsystem", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemLoads.WithLabelValues("solarsystem", OutcomeTypeMismatch)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "universe_item_loads_total")
	assert.Contains(t, names, "universe_item_load_duration_seconds")
}

func TestMetrics_Lookups(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordTypeLookup(LookupMiss)
	m.RecordTypeLookup(LookupHit)
	m.RecordTypeLookup(LookupHit)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TypeLookups.WithLabelValues(LookupHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TypeLookups.WithLabelValues(LookupMiss)))
}

func TestMetrics_Imported(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AddImported("items", 3)
	m.AddImported("items", 0)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ImportedRecords.WithLabelValues("items")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLoad("item", OutcomeOK, time.Now())
		m.RecordTypeLookup(LookupHit)
		m.AddImported("types", 1)
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
