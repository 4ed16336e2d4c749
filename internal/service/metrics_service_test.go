package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter from the registry. labelValues follow label names in sorted order.
func counterValue(t *testing.T, m *MetricsService, name string, labelValues ...string) float64 {
	t.Helper()
	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := metric.GetLabel()
			if len(labels) != len(labelValues) {
				continue
			}
			match := true
			for i, label := range labels {
				if label.GetValue() != labelValues[i] {
					match = false
					break
				}
			}
			if match {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.RecordTransition("draft", "completed")
	m.RecordTransition("draft", "completed")
	m.RecordEntryAppended()
	m.RecordReportRendered("pdf")
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/observations", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, m, "observation_transitions_total", "draft", "completed"))
	assert.Equal(t, float64(1), counterValue(t, m, "observation_entries_appended_total"))
	assert.Equal(t, float64(1), counterValue(t, m, "observation_reports_rendered_total", "pdf"))
	assert.Equal(t, float64(1), counterValue(t, m, "cache_hits_total"))
	assert.Equal(t, float64(1), counterValue(t, m, "cache_misses_total"))
	assert.Equal(t, float64(1), counterValue(t, m, "http_requests_total", "GET", "/api/v1/observations", "200"))
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.RecordEntryAppended()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "observation_entries_appended_total 1"))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordTransition("draft", "completed")
		m.RecordEntryAppended()
		m.RecordReportRendered("csv")
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveDBQuery("observations.list", time.Millisecond)
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
