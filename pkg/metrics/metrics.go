package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "grafik"

var (
	once sync.Once

	malformedCustomDays = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_custom_days_total",
			Help:      "Count of stored schedules whose custom_days could not be parsed.",
		},
	)

	scheduleConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_conflicts_total",
			Help:      "Count of schedule writes rejected because of overlapping schedules.",
		},
	)

	assignmentRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_rejections_total",
			Help:      "Count of order assignments rejected, by reason.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests handled, by method and status.",
		},
		[]string{"method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling time.",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 2, 5},
		},
		[]string{"method"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Count of cache hits, by cache name.",
		},
		[]string{"cache"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Count of cache misses, by cache name.",
		},
		[]string{"cache"},
	)

	flowDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_duration_seconds",
			Help:      "Dispatch flow execution time, by flow.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2, 5, 10},
		},
		[]string{"flow"},
	)

	flowFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_failures_total",
			Help:      "Count of dispatch flow failures, by flow and step.",
		},
		[]string{"flow", "step"},
	)

	kafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Count of Kafka messages produced and consumed, by topic, direction and outcome.",
		},
		[]string{"topic", "direction", "outcome"},
	)
)

// Register registers all collectors with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			malformedCustomDays,
			scheduleConflicts,
			assignmentRejections,
			httpRequests,
			httpDuration,
			cacheHits,
			cacheMisses,
			flowDuration,
			flowFailures,
			kafkaMessages,
		)
	})
}

func IncMalformedCustomDays() {
	malformedCustomDays.Inc()
}

func IncScheduleConflicts() {
	scheduleConflicts.Inc()
}

func IncAssignmentRejections(reason string) {
	assignmentRejections.WithLabelValues(reason).Inc()
}

func ObserveHTTPRequest(method, status string, seconds float64) {
	httpRequests.WithLabelValues(method, status).Inc()
	httpDuration.WithLabelValues(method).Observe(seconds)
}

func IncCacheHit(cache string) {
	cacheHits.WithLabelValues(cache).Inc()
}

func IncCacheMiss(cache string) {
	cacheMisses.WithLabelValues(cache).Inc()
}

func ObserveFlowDuration(flow string, seconds float64) {
	flowDuration.WithLabelValues(flow).Observe(seconds)
}

func IncFlowFailures(flow, step string) {
	flowFailures.WithLabelValues(flow, step).Inc()
}

func IncKafkaMessage(topic, direction, outcome string) {
	kafkaMessages.WithLabelValues(topic, direction, outcome).Inc()
}
