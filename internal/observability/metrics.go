package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spec-kit/support-tickets/internal/domain"
)

const metricsNamespace = "support_tickets"

// Metrics exposes prometheus counters for HTTP traffic, imports and
// classification outcomes. A nil *Metrics is a valid no-op.
type Metrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorTotal      *prometheus.CounterVec
	importRecords   *prometheus.CounterVec
	importAborted   *prometheus.CounterVec
	classifications *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg, or the default registerer when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total error responses by route and error code",
		}, []string{"path", "method", "code"}),
		importRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Imported records by format and outcome",
		}, []string{"format", "outcome"}),
		importAborted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "aborted_total",
			Help:      "Imports rejected before any record was validated",
		}, []string{"format"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "classifier",
			Name:      "decisions_total",
			Help:      "Classification decisions by category and priority",
		}, []string{"category", "priority"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestTotal, m.requestDuration, m.errorTotal, m.importRecords, m.importAborted, m.classifications)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(path, method, code).Inc()
}

// RecordImport counts one finished import.
func (m *Metrics) RecordImport(format domain.ImportFormat, result *domain.ImportResult) {
	if m == nil || result == nil {
		return
	}
	if result.Aborted() {
		m.importAborted.WithLabelValues(string(format)).Inc()
		return
	}
	m.importRecords.WithLabelValues(string(format), "success").Add(float64(result.Successful))
	m.importRecords.WithLabelValues(string(format), "failed").Add(float64(result.Failed))
}

// RecordClassification counts one classifier decision.
func (m *Metrics) RecordClassification(category domain.TicketCategory, priority domain.TicketPriority) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(string(category), string(priority)).Inc()
}
