// Package metrics holds the prometheus collectors of the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riceledger"

// Adjust outcomes.
const (
	OutcomeApplied      = "applied"
	OutcomeInsufficient = "insufficient"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

// Metrics groups the collectors.
type Metrics struct {
	registry         *prometheus.Registry
	stockAdjustments *prometheus.CounterVec
	compensations    *prometheus.CounterVec
	saleMutations    *prometheus.CounterVec
	dashboardLatency prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Stock adjustments by direction and outcome.",
		}, []string{"direction", "outcome"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_compensations_total",
			Help:      "Compensating stock credits issued after a failed sale mutation.",
		}, []string{"operation", "outcome"}),
		saleMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_mutations_total",
			Help:      "Sale create/update/delete calls by outcome.",
		}, []string{"operation", "outcome"}),
		dashboardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_duration_seconds",
			Help:      "Time spent building a dashboard report.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.stockAdjustments,
		m.compensations,
		m.saleMutations,
		m.dashboardLatency,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// StockAdjusted records one adjust call.
func (m *Metrics) StockAdjusted(delta float64, outcome string) {
	if m == nil {
		return
	}
	direction := "credit"
	if delta < 0 {
		direction = "debit"
	}
	m.stockAdjustments.WithLabelValues(direction, outcome).Inc()
}

// Compensated records one compensating credit.
func (m *Metrics) Compensated(operation string, err error) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(operation, result(err)).Inc()
}

// SaleMutated records the outcome of a sale operation.
func (m *Metrics) SaleMutated(operation string, err error) {
	if m == nil {
		return
	}
	m.saleMutations.WithLabelValues(operation, result(err)).Inc()
}

// DashboardBuilt observes the time since start.
func (m *Metrics) DashboardBuilt(start time.Time) {
	if m == nil {
		return
	}
	m.dashboardLatency.Observe(time.Since(start).Seconds())
}

// RequestServed records one HTTP request.
func (m *Metrics) RequestServed(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
