package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
)

const (
	mutationResultOK    = "ok"
	mutationResultError = "error"
)

// MetricsService owns the Prometheus registry and every collector the API exports.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	syllabusEntries  *prometheus.GaugeVec
	syllabusDelayed  prometheus.Gauge
	syllabusRefresh  prometheus.Gauge
	syllabusMutation *prometheus.CounterVec
	auditDropped     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache set operations",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups partitioned by outcome",
		}, []string{"outcome"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		syllabusEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "syllabus_entries",
			Help: "Stored syllabus entries per status",
		}, []string{"status"}),
		syllabusDelayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "syllabus_entries_delayed",
			Help: "Open syllabus entries whose planned date has passed",
		}),
		syllabusRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "syllabus_stats_refreshed_timestamp_seconds",
			Help: "Unix time of the last successful syllabus gauge refresh",
		}),
		syllabusMutation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syllabus_mutations_total",
			Help: "Syllabus write operations partitioned by action and result",
		}, []string{"action", "result"}),
		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_logs_dropped_total",
			Help: "Audit records discarded because the queue was unavailable",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheLookups,
		m.dbQueryDuration,
		m.syllabusEntries, m.syllabusDelayed, m.syllabusRefresh, m.syllabusMutation, m.auditDropped,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Gatherer exposes the registry for inspection.
func (m *MetricsService) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveHTTPRequest records request latency and count.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup outcome.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordSyllabusMutation counts a write operation and whether it succeeded.
func (m *MetricsService) RecordSyllabusMutation(action string, err error) {
	if m == nil {
		return
	}
	result := mutationResultOK
	if err != nil {
		result = mutationResultError
	}
	m.syllabusMutation.WithLabelValues(action, result).Inc()
}

// SetSyllabusStats publishes the latest status and delay counts.
func (m *MetricsService) SetSyllabusStats(counts map[models.SyllabusStatus]int, delayed int, at time.Time) {
	if m == nil {
		return
	}
	for _, status := range models.SyllabusStatuses {
		m.syllabusEntries.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	m.syllabusDelayed.Set(float64(delayed))
	m.syllabusRefresh.Set(float64(at.Unix()))
}

// RecordAuditDropped counts an audit record that could not be queued.
func (m *MetricsService) RecordAuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}
