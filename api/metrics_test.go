package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_Record(t *testing.T) {
	mc := NewMetricsCollector()
	mc.Record("GET", "/api/v1/reports/{report_id}", 200, 10*time.Millisecond, "")
	mc.Record("GET", "/api/v1/reports/{report_id}", 423, 30*time.Millisecond, "LOCKED")
	mc.Record("POST", "/api/v1/reports", 201, 5*time.Millisecond, "")

	s := mc.Summary()
	assert.EqualValues(t, 3, s.TotalRequests)
	assert.EqualValues(t, 1, s.TotalErrors)
	require.Len(t, s.Routes, 2)

	busiest := s.Routes[0]
	assert.Equal(t, "/api/v1/reports/{report_id}", busiest.Path)
	assert.EqualValues(t, 2, busiest.Count)
	assert.EqualValues(t, 1, busiest.ErrorCount)
	assert.Equal(t, 20*time.Millisecond, busiest.AvgTime)
	assert.Equal(t, 10*time.Millisecond, busiest.MinTime)
	assert.Equal(t, 30*time.Millisecond, busiest.MaxTime)
	assert.Equal(t, map[string]int64{"LOCKED": 1}, busiest.Refusals)
}

func TestMetricsCollector_SummaryIsACopy(t *testing.T) {
	mc := NewMetricsCollector()
	mc.Record("GET", "/x", 423, time.Millisecond, "LOCKED")

	s := mc.Summary()
	s.Routes[0].Refusals["LOCKED"] = 99
	s.Routes[0].Count = 99

	again := mc.Summary()
	assert.EqualValues(t, 1, again.Routes[0].Count)
	assert.EqualValues(t, 1, again.Routes[0].Refusals["LOCKED"])
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	mc := NewMetricsCollector()
	r := mux.NewRouter()
	r.Use(mc.MetricsMiddleware)
	r.HandleFunc("/reports/{report_id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderErrorCode, "NOT_FOUND")
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/reports/"+id, nil))
	}

	s := mc.Summary()
	require.Len(t, s.Routes, 1)
	assert.Equal(t, "/reports/{report_id}", s.Routes[0].Path)
	assert.EqualValues(t, 2, s.Routes[0].ErrorCount)
	assert.EqualValues(t, 2, s.Routes[0].Refusals["NOT_FOUND"])
}
