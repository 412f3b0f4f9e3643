package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Authentication errors by type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "user_not_found", "invalid_credentials", "invalid_token", etc.
	)

	// Store operations by store and operation
	StoreOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"store", "operation"}, // store: tag/assignee/action_path/auth
	)

	// Board working-set operations
	BoardOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_operations_total",
			Help: "Total number of board working-set operations",
		},
		[]string{"operation"}, // "select", "save", "save_as_new", "drag_over", "drag_end", etc.
	)

	// Rows imported from assignee CSV files
	CSVImportedRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_csv_imported_rows_total",
			Help: "Total number of assignee rows imported from CSV",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "board_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Persistence operation duration
	PersistDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "board_persist_duration_seconds",
			Help:    "Duration of snapshot persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"namespace"},
	)
)

// Gauge metrics
var (
	// Active sessions (issued and not logged out)
	ActiveSessionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "board_active_sessions",
			Help: "Number of active board sessions",
		},
	)

	// Unsaved boards across sessions
	DirtyBoardsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "board_dirty_boards",
			Help: "Number of sessions with unsaved changes",
		},
	)
)

var registered bool

// InitMetrics registers all metrics with the default registry.
func InitMetrics() {
	if registered {
		return
	}
	prometheus.MustRegister(
		LoginCounter,
		AuthErrorCounter,
		StoreOperationCounter,
		BoardOperationCounter,
		CSVImportedRowsCounter,
		HTTPRequestCounter,
		RequestDuration,
		PersistDuration,
		ActiveSessionsGauge,
		DirtyBoardsGauge,
	)
	registered = true
}

// MetricsMiddleware returns Echo middleware recording request counts and
// durations.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordStoreOperation records a store operation
func RecordStoreOperation(store, operation string) {
	StoreOperationCounter.With(prometheus.Labels{"store": store, "operation": operation}).Inc()
}

// RecordBoardOperation records a board working-set operation
func RecordBoardOperation(operation string) {
	BoardOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// TrackPersist returns a function that records the elapsed persistence time
// for a namespace when invoked: defer TrackPersist("tag-storage")(time.Now())
func TrackPersist(namespace string) func(time.Time) {
	return func(start time.Time) {
		PersistDuration.WithLabelValues(namespace).Observe(time.Since(start).Seconds())
	}
}

// GetPrometheusHandler returns the HTTP handler exposing the metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
