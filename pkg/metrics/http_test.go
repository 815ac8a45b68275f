package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.Observe(http.MethodGet, "/api/v1/products/{id}", http.StatusOK, 25*time.Millisecond)
	metrics.Observe(http.MethodGet, "/api/v1/products/{id}", http.StatusOK, 30*time.Millisecond)
	metrics.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	counter := findFamily(families, "http_requests_total")
	require.NotNil(t, counter)

	var matched, unmatched float64
	for _, metric := range counter.GetMetric() {
		labels := labelMap(metric)
		switch labels["route"] {
		case "/api/v1/products/{id}":
			matched = metric.GetCounter().GetValue()
		case "unmatched":
			unmatched = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), matched)
	assert.Equal(t, float64(1), unmatched)
}

func TestHTTPMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	counter := findFamily(families, "http_requests_total")
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)

	labels := labelMap(counter.GetMetric()[0])
	assert.Equal(t, "/widgets/{id}", labels["route"])
	assert.Equal(t, "418", labels["status"])
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)
}

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func labelMap(metric *dto.Metric) map[string]string {
	labels := make(map[string]string, len(metric.GetLabel()))
	for _, pair := range metric.GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	return labels
}
