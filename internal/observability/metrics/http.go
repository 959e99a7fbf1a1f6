package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	submissionsTotal     *prometheus.CounterVec
	uploadsTotal         *prometheus.CounterVec
	documentDeletesTotal *prometheus.CounterVec
	loginsTotal          *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tvr",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tvr",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tvr",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tvr",
			Subsystem: "records",
			Name:      "submissions_total",
			Help:      "Total record create/update submissions by outcome.",
		},
		[]string{"service", "mode", "status"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tvr",
			Subsystem: "records",
			Name:      "uploads_total",
			Help:      "Total document uploads by slot and outcome.",
		},
		[]string{"service", "slot", "status"},
	)
	documentDeletesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tvr",
			Subsystem: "records",
			Name:      "document_deletes_total",
			Help:      "Total document deletions by outcome.",
		},
		[]string{"service", "status"},
	)
	loginsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tvr",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		submissionsTotal,
		uploadsTotal,
		documentDeletesTotal,
		loginsTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		submissionsTotal:     submissionsTotal,
		uploadsTotal:         uploadsTotal,
		documentDeletesTotal: documentDeletesTotal,
		loginsTotal:          loginsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/records/") &&
		path != "/records/document" && path != "/records/schema":
		return "/records/{id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSubmission(service, mode, status string) {
	m.submissionsTotal.WithLabelValues(service, mode, status).Inc()
}

func (m *HTTPServerMetrics) RecordUpload(service, slot, status string) {
	if slot == "" {
		slot = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, slot, status).Inc()
}

func (m *HTTPServerMetrics) RecordDocumentDelete(service, status string) {
	m.documentDeletesTotal.WithLabelValues(service, status).Inc()
}

func (m *HTTPServerMetrics) RecordLogin(service, status string) {
	m.loginsTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}
