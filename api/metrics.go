package api

import (
	"sort"
	"sync"
	"time"
)

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
	// Refusals counts engine refusals by code, e.g. LOCKED or CASE_CLOSED
	Refusals map[string]int64 `json:"refusals,omitempty"`
}

// MetricsSummary is the payload of the metrics endpoint
type MetricsSummary struct {
	WindowStart   time.Time       `json:"windowStart"`
	TotalRequests int64           `json:"totalRequests"`
	TotalErrors   int64           `json:"totalErrors"`
	Routes        []*RouteMetrics `json:"routes"`
}

// MetricsCollector collects and aggregates request metrics
type MetricsCollector struct {
	mu            sync.RWMutex
	routeMetrics  map[string]*RouteMetrics
	windowStart   time.Time
	totalRequests int64
	totalErrors   int64
}

// NewMetricsCollector returns an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		routeMetrics: make(map[string]*RouteMetrics),
		windowStart:  time.Now(),
	}
}

// Record adds one finished request. path is the route template so reports and
// cases with different ids share a bucket. code is the engine refusal, if any.
func (mc *MetricsCollector) Record(method, path string, status int, duration time.Duration, code string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	routeKey := method + " " + path
	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  method,
			Path:    path,
			MinTime: duration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += duration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = time.Now()
	if duration < metrics.MinTime {
		metrics.MinTime = duration
	}
	if duration > metrics.MaxTime {
		metrics.MaxTime = duration
	}

	if status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	if code != "" {
		if metrics.Refusals == nil {
			metrics.Refusals = map[string]int64{}
		}
		metrics.Refusals[code]++
	}
	mc.totalRequests++
}

// Summary returns a copy of the collected metrics, busiest routes first
func (mc *MetricsCollector) Summary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]*RouteMetrics, 0, len(mc.routeMetrics))
	for _, m := range mc.routeMetrics {
		c := *m
		if m.Refusals != nil {
			c.Refusals = make(map[string]int64, len(m.Refusals))
			for k, v := range m.Refusals {
				c.Refusals[k] = v
			}
		}
		routes = append(routes, &c)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		return routes[i].Method+routes[i].Path < routes[j].Method+routes[j].Path
	})

	return MetricsSummary{
		WindowStart:   mc.windowStart,
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		Routes:        routes,
	}
}
