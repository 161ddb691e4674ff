package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
// It includes counters and histograms for HTTP requests, a histogram for
// database query durations, and a histogram for report generation.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec   // Counter for handled HTTP requests
	HTTPDuration     *prometheus.HistogramVec // Histogram for HTTP request durations
	DBQueryDuration  *prometheus.HistogramVec // Histogram for database query durations
	ReportGeneration *prometheus.HistogramVec // Histogram for attendance report generation durations
}

// NewMetrics creates a new Metrics instance with the provided Prometheus Registerer.
//
// Parameters:
//   - reg: A Prometheus Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hr_http_requests_total",
			Help: "Total number of handled HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hr_http_request_duration_seconds",
			Help:    "Duration of handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hr_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'create_employee', 'list_attendance'
		ReportGeneration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "hr_report_generation_duration_seconds",
			Help: "Duration of attendance report excel generation.",
		}, []string{"employee"}),
	}
}
