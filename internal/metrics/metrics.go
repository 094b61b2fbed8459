// ABOUTME: Prometheus metrics for cache traffic, language model calls and gravity
// ABOUTME: All recording methods are nil-safe so components run without metrics
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Metrics holds the orbit collectors and the registry they live in
type Metrics struct {
	registry *prometheus.Registry

	CacheLookups   *prometheus.CounterVec
	CacheWrites    *prometheus.CounterVec
	OracleCalls    *prometheus.CounterVec
	OracleDuration *prometheus.HistogramVec
	GravityPairs   prometheus.Histogram
	StoreErrors    *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orbit",
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by namespace and result (hit, miss, error)",
			},
			[]string{"namespace", "result"},
		),

		CacheWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orbit",
				Subsystem: "cache",
				Name:      "writes_total",
				Help:      "Successful cache writes by namespace",
			},
			[]string{"namespace"},
		),

		OracleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orbit",
				Subsystem: "oracle",
				Name:      "calls_total",
				Help:      "Language model calls by operation and status",
			},
			[]string{"operation", "status"},
		),

		OracleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "orbit",
				Subsystem: "oracle",
				Name:      "duration_seconds",
				Help:      "Language model call latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"operation"},
		),

		GravityPairs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "orbit",
				Subsystem: "gravity",
				Name:      "pairs",
				Help:      "Similarity pairs returned per gravity request",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orbit",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Vector store failures absorbed by the service",
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(
		m.CacheLookups,
		m.CacheWrites,
		m.OracleCalls,
		m.OracleDuration,
		m.GravityPairs,
		m.StoreErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding every orbit collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// CacheLookup counts one cache read
func (m *Metrics) CacheLookup(namespace, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(namespace, result).Inc()
}

// CacheWrite counts one successful cache write
func (m *Metrics) CacheWrite(namespace string) {
	if m == nil {
		return
	}
	m.CacheWrites.WithLabelValues(namespace).Inc()
}

// ObserveOracle records a language model call that started at start
func (m *Metrics) ObserveOracle(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.OracleCalls.WithLabelValues(operation, status).Inc()
	m.OracleDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveGravity records the size of one gravity result
func (m *Metrics) ObserveGravity(pairs int) {
	if m == nil {
		return
	}
	m.GravityPairs.Observe(float64(pairs))
}

// StoreError counts a store failure that was absorbed
func (m *Metrics) StoreError(operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}
