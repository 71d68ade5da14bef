package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "openplay"

// Label keys shared by the collectors
const (
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

// Operation outcomes
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder publishes request and rotation metrics to a Prometheus registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	operations     *prometheus.CounterVec
	matches        prometheus.Counter
	queueLength    prometheus.Histogram
	sseClients     prometheus.Gauge
	sessionsActive prometheus.Gauge
}

// NewRecorder creates a Recorder backed by a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{LabelMethod, LabelRoute, LabelStatus}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelMethod, LabelRoute}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_operations_total",
			Help:      "Session operations by name and outcome.",
		}, []string{LabelOperation, LabelOutcome}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_recorded_total",
			Help:      "Match results appended to session history.",
		}),
		queueLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Queue length observed after each session mutation.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}),
		sseClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sse_clients",
			Help:      "Connected event stream clients.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions created and not yet deleted by this process.",
		}),
	}
	reg.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.operations,
		r.matches,
		r.queueLength,
		r.sseClients,
		r.sessionsActive,
	)
	return r
}

// Handler returns the Prometheus exposition handler for this recorder
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordHTTPRequest tracks a completed HTTP request
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation tracks a session operation and its outcome
func (r *Recorder) RecordOperation(operation, outcome string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
}

// RecordMatches counts appended match records
func (r *Recorder) RecordMatches(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.matches.Add(float64(n))
}

// ObserveQueueLength records the queue length after a mutation
func (r *Recorder) ObserveQueueLength(n int) {
	if r == nil {
		return
	}
	r.queueLength.Observe(float64(n))
}

// SSEClientConnected increments the connected client gauge
func (r *Recorder) SSEClientConnected() {
	if r == nil {
		return
	}
	r.sseClients.Inc()
}

// SSEClientDisconnected decrements the connected client gauge
func (r *Recorder) SSEClientDisconnected() {
	if r == nil {
		return
	}
	r.sseClients.Dec()
}

// SessionCreated tracks a new session
func (r *Recorder) SessionCreated() {
	if r == nil {
		return
	}
	r.sessionsActive.Inc()
}

// SessionDeleted tracks a deleted session
func (r *Recorder) SessionDeleted() {
	if r == nil {
		return
	}
	r.sessionsActive.Dec()
}
