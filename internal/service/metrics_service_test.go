package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/schools/:id/debt", http.StatusOK, 15*time.Millisecond)
	metrics.ObserveDBQuery("school_debt", 3*time.Millisecond)
	metrics.ObserveAggregation("school_debt", 12)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/schools/:id/debt",status="200"} 1`)
	assert.Contains(t, body, `db_query_duration_seconds_count{query="school_debt"} 1`)
	assert.Contains(t, body, `aggregation_input_records_count{view="school_debt"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveDBQuery("noop", time.Millisecond)
	metrics.ObserveAggregation("noop", 1)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
