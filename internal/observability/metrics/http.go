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

	advisoriesTotal   *prometheus.CounterVec
	enrichItemsTotal  *prometheus.CounterVec
	relayRequests     *prometheus.CounterVec
	relayDuration     *prometheus.HistogramVec
	streamConnections prometheus.Gauge
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "v360",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "v360",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "v360",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	advisoriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "v360",
			Subsystem: "guidance",
			Name:      "advisories_total",
			Help:      "Total advisories produced by priority.",
		},
		[]string{"service", "priority"},
	)
	enrichItemsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "v360",
			Subsystem: "guidance",
			Name:      "enrich_items_total",
			Help:      "Total enriched detections by outcome.",
		},
		[]string{"service", "status"},
	)
	relayRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "v360",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Total external model relay calls by vendor and outcome.",
		},
		[]string{"service", "vendor", "status"},
	)
	relayDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "v360",
			Subsystem: "relay",
			Name:      "duration_seconds",
			Help:      "External model relay call duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service", "vendor"},
	)
	streamConnections := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "v360",
			Subsystem: "stream",
			Name:      "connections",
			Help:      "Open guidance stream connections.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		advisoriesTotal,
		enrichItemsTotal,
		relayRequests,
		relayDuration,
		streamConnections,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		advisoriesTotal:   advisoriesTotal,
		enrichItemsTotal:  enrichItemsTotal,
		relayRequests:     relayRequests,
		relayDuration:     relayDuration,
		streamConnections: streamConnections,
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
	case strings.HasPrefix(path, "/v1/analyses/"):
		return "/v1/analyses/{analysis_id}"
	case strings.HasPrefix(path, "/v1/reservations/"):
		return "/v1/reservations/{reservation_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAdvisory(service, priority string) {
	if priority == "" {
		priority = "unknown"
	}
	m.advisoriesTotal.WithLabelValues(service, priority).Inc()
}

func (m *HTTPServerMetrics) RecordEnrichItems(service string, ok, failed int) {
	if ok > 0 {
		m.enrichItemsTotal.WithLabelValues(service, "ok").Add(float64(ok))
	}
	if failed > 0 {
		m.enrichItemsTotal.WithLabelValues(service, "error").Add(float64(failed))
	}
}

func (m *HTTPServerMetrics) RecordRelayCall(service, vendor string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.relayRequests.WithLabelValues(service, vendor, status).Inc()
	m.relayDuration.WithLabelValues(service, vendor).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) StreamOpened() {
	m.streamConnections.Inc()
}

func (m *HTTPServerMetrics) StreamClosed() {
	m.streamConnections.Dec()
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
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
