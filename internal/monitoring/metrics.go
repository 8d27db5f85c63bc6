package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_auth_attempts_total",
			Help: "Total register and login attempts by outcome",
		},
		[]string{"event", "success"},
	)
	rotationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_todo_rotations_total",
			Help: "Total todo rotations by outcome",
		},
		[]string{"success"},
	)
	rotationLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_todo_rotation_last_success_timestamp_seconds",
			Help: "Unix time of the last successful todo rotation",
		},
	)
	connectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_websocket_clients",
			Help: "Currently connected websocket clients",
		},
	)
	resourceRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "planner_resource_rows",
			Help: "Stored rows per resource kind",
		},
		[]string{"kind"},
	)
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordAuthAttempt records a register or login attempt.
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordRotation records the outcome of one todo rotation.
func RecordRotation(success bool, at time.Time) {
	rotationRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	if success {
		rotationLastSuccess.Set(float64(at.Unix()))
	}
}

// SetConnectedClients publishes the number of open websocket connections.
func SetConnectedClients(n int) {
	connectedClients.Set(float64(n))
}

// SetResourceRows publishes the row count of one resource kind.
func SetResourceRows(kind string, n int64) {
	resourceRows.WithLabelValues(kind).Set(float64(n))
}
