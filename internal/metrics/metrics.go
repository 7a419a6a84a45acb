// Package metrics holds the Prometheus collectors for HTTP traffic and domain events.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pinmark"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	uploadURLs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "upload_urls_issued_total",
			Help:      "Pre-signed upload URLs handed out.",
		},
	)

	quotaRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "quota_rejections_total",
			Help:      "Upload requests refused because the storage limit was reached.",
		},
	)

	objectDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "object_deletes_total",
			Help:      "Object deletions by result.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "emails_total",
			Help:      "Notification emails by kind and status.",
		},
		[]string{"kind", "status"},
	)

	changeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "change_events_total",
			Help:      "Database change events relayed to subscribers.",
		},
		[]string{"table"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Scheduled job runs by job and success.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		uploadURLs,
		quotaRejections,
		objectDeletes,
		notifications,
		changeEvents,
		jobRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the func that records its outcome.
func RequestStarted(method string) func(path string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	method = strings.ToUpper(method)
	return func(path string, status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordUploadURL() { uploadURLs.Inc() }

func RecordQuotaRejection() { quotaRejections.Inc() }

func RecordObjectDelete(err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	objectDeletes.WithLabelValues(result).Inc()
}

func RecordNotification(kind, status string) {
	notifications.WithLabelValues(kind, status).Inc()
}

func RecordChangeEvent(table string) {
	if table == "" {
		table = "unknown"
	}
	changeEvents.WithLabelValues(table).Inc()
}

func RecordJobRun(job string, err error) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(err == nil)).Inc()
}
