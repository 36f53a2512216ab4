package observability

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	requestsMetric = "portfolio_http_requests_total"
	durationMetric = "portfolio_http_request_duration_seconds"
	errorsMetric   = "portfolio_http_errors_total"
	authMetric     = "portfolio_auth_outcomes_total"
)

// Metrics collects Prometheus metrics for the API.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	authOutcomes    *prometheus.CounterVec
	startedAt       time.Time
}

// Snapshot is a point-in-time JSON view of the registry.
type Snapshot struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	Requests      map[string]int64 `json:"requests"`
	Errors        map[string]int64 `json:"errors"`
	Auth          map[string]int64 `json:"auth"`
	AvgLatencyMS  map[string]int64 `json:"avg_latency_ms"`
}

// NewMetrics builds a dedicated registry with the API collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: requestsMetric,
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    durationMetric,
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: errorsMetric,
		Help: "Error responses by route, method and error code.",
	}, []string{"route", "method", "code"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: authMetric,
		Help: "Authentication middleware results.",
	}, []string{"outcome"})
	registry.MustRegister(requests, duration, errs, outcomes)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		errorsTotal:     errs,
		authOutcomes:    outcomes,
		startedAt:       time.Now(),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// RecordRequest counts a finished request and observes its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(path, method, code).Inc()
	m.requestDuration.WithLabelValues(path, method, code).Observe(duration.Seconds())
}

// RecordError counts an error response by its domain code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordAuthOutcome counts authentication middleware results.
func (m *Metrics) RecordAuthOutcome(outcome string) {
	if m == nil {
		return
	}
	m.authOutcomes.WithLabelValues(outcome).Inc()
}

// AuthOutcome returns the count for a single outcome.
func (m *Metrics) AuthOutcome(outcome string) int64 {
	if m == nil {
		return 0
	}
	return m.Snapshot().Auth[outcome]
}

// Snapshot gathers the registry into flat maps keyed by "route|method|status".
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:     make(map[string]int64),
		Errors:       make(map[string]int64),
		Auth:         make(map[string]int64),
		AvgLatencyMS: make(map[string]int64),
	}
	if m == nil {
		return snap
	}
	snap.UptimeSeconds = int64(time.Since(m.startedAt).Seconds())

	families, err := m.registry.Gather()
	if err != nil {
		return snap
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			switch family.GetName() {
			case requestsMetric:
				key := labelKey(labels["route"], labels["method"], labels["status"])
				snap.Requests[key] = int64(metric.GetCounter().GetValue())
			case errorsMetric:
				key := labelKey(labels["route"], labels["method"], labels["code"])
				snap.Errors[key] = int64(metric.GetCounter().GetValue())
			case authMetric:
				snap.Auth[labels["outcome"]] = int64(metric.GetCounter().GetValue())
			case durationMetric:
				h := metric.GetHistogram()
				if n := h.GetSampleCount(); n > 0 {
					key := labelKey(labels["route"], labels["method"], labels["status"])
					snap.AvgLatencyMS[key] = int64(math.Round(h.GetSampleSum() / float64(n) * 1000))
				}
			}
		}
	}
	return snap
}

// Keys returns the sorted request keys.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Requests))
	for k := range s.Requests {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelKey(parts ...string) string {
	key := parts[0]
	for _, p := range parts[1:] {
		key += "|" + p
	}
	return key
}
