package prometheus

import (
	"time"

	"gestao-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter       prometheus.Counter
	RegisterCounter    prometheus.Counter
	AuthErrorsCounter  prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity CRUD metrics
	EntityOperationsCounter prometheus.CounterVec

	// Report metrics
	ReportsGeneratedCounter prometheus.CounterVec
	ReportErrorsCounter     prometheus.CounterVec
	ReportRenderDuration    prometheus.HistogramVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	LoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_register_attempts_total",
			Help: "Total number of registration attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	EntityOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_entity_operations_total",
			Help: "Total number of CRUD operations per entity",
		},
		[]string{"entity", "operation"},
	)

	ReportsGeneratedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_reports_generated_total",
			Help: "Total number of reports generated",
		},
		[]string{"report", "format"},
	)

	ReportErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_report_errors_total",
			Help: "Total number of failed report generations",
		},
		[]string{"report", "reason"},
	)

	ReportRenderDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_report_render_duration_seconds",
			Help:    "Duration of report rendering in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report", "format"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordEntityOperation increments the counter for a CRUD operation
func RecordEntityOperation(entity, operation string) {
	EntityOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordReportGenerated increments the counter for a generated report
func RecordReportGenerated(report, format string) {
	ReportsGeneratedCounter.WithLabelValues(report, format).Inc()
}

// RecordReportError increments the counter for a failed report
func RecordReportError(report, reason string) {
	ReportErrorsCounter.WithLabelValues(report, reason).Inc()
}

// TrackReportRender returns a function that records rendering duration
func TrackReportRender(report, format string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		ReportRenderDuration.WithLabelValues(report, format).Observe(duration)
	}
}
