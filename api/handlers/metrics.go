package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linesmerrill/claim-reports-api/api"
)

// Metrics serves the in-process request metrics
type Metrics struct {
	Collector *api.MetricsCollector
}

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []*api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"lastRequest": route.LastRequest,
			"refusals":    route.Refusals,
		}
	}
	return result
}

// MetricsHandler returns per-route counts, latencies and refusal codes
func (m Metrics) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	summary := m.Collector.Summary()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"windowStart":   summary.WindowStart,
		"totalRequests": summary.TotalRequests,
		"totalErrors":   summary.TotalErrors,
		"routes":        formatRouteMetrics(summary.Routes),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
