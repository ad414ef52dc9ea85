package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry holds every InkSpire client collector and is served on /metrics in serve mode
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets cover a local round trip up to a slow upload
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

	// Local front end metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Local front end request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of local front end requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of in-flight local front end requests",
		},
		[]string{"http_request_method"},
	)

	// Remote API client metrics
	APIClientRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inkspire_api_client_operation_duration_seconds",
			Help:    "InkSpire API call duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	APIClientRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkspire_api_client_operation_total",
			Help: "Total number of InkSpire API calls",
		},
		[]string{"operation", "status"},
	)

	BreakerStateChanges = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkspire_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"breaker", "to"},
	)

	// Client state metrics
	SessionTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkspire_session_transitions_total",
			Help: "Session state machine transitions",
		},
		[]string{"from", "to"},
	)

	Notifications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkspire_notifications_total",
			Help: "Notifications shown to the user",
		},
		[]string{"severity"},
	)

	StorageOperations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkspire_storage_operations_total",
			Help: "Durable storage operations",
		},
		[]string{"driver", "operation", "status"},
	)

	WebsocketClients = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkspire_websocket_clients",
			Help: "Connected local front end websocket clients",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
