package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the attendance
// pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	scansTotal      *prometheus.CounterVec
	scanConflicts   *prometheus.CounterVec
	leaveTotal      prometheus.Counter
	sweepRuns       prometheus.Counter
	sweepMarked     prometheus.Counter
	ruleCacheHits   prometheus.Counter
	ruleCacheMisses prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	scansTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_scans_total",
		Help: "Processed scans by resulting status and transition",
	}, []string{"status", "transition"})

	scanConflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_scan_conflicts_total",
		Help: "Scans rejected as duplicates or already-completed days",
	}, []string{"code"})

	leaveTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leave_reconciliations_total",
		Help: "Completed leave interval reconciliations",
	})

	sweepRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "absent_sweep_runs_total",
		Help: "Absent-marking sweep executions",
	})

	sweepMarked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "absent_sweep_marked_total",
		Help: "Attendees marked absent by the sweep",
	})

	ruleCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rule_cache_hits_total",
		Help: "Rule resolution cache hits",
	})

	ruleCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rule_cache_misses_total",
		Help: "Rule resolution cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, scansTotal, scanConflicts,
		leaveTotal, sweepRuns, sweepMarked, ruleCacheHits, ruleCacheMisses, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		scansTotal:      scansTotal,
		scanConflicts:   scanConflicts,
		leaveTotal:      leaveTotal,
		sweepRuns:       sweepRuns,
		sweepMarked:     sweepMarked,
		ruleCacheHits:   ruleCacheHits,
		ruleCacheMisses: ruleCacheMisses,
	}
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveScan counts an accepted scan transition.
func (m *MetricsService) ObserveScan(status models.AttendanceStatus, transition string) {
	if m == nil {
		return
	}
	m.scansTotal.WithLabelValues(string(status), transition).Inc()
}

// ObserveScanConflict counts a rejected duplicate or completed-day scan.
func (m *MetricsService) ObserveScanConflict(code string) {
	if m == nil {
		return
	}
	m.scanConflicts.WithLabelValues(code).Inc()
}

// ObserveLeaveReconciliation counts a completed reconciliation.
func (m *MetricsService) ObserveLeaveReconciliation() {
	if m == nil {
		return
	}
	m.leaveTotal.Inc()
}

// ObserveSweep records one sweep run and how many attendees it marked.
func (m *MetricsService) ObserveSweep(marked int) {
	if m == nil {
		return
	}
	m.sweepRuns.Inc()
	m.sweepMarked.Add(float64(marked))
}

// RecordRuleCache counts rule cache lookups.
func (m *MetricsService) RecordRuleCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ruleCacheHits.Inc()
	} else {
		m.ruleCacheMisses.Inc()
	}
}
