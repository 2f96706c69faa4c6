package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tglive_http_requests_total",
			Help: "Total number of HTTP requests processed by the presenter surface.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tglive_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	updatesRoutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tglive_updates_routed_total",
			Help: "Total number of backend updates routed, by update kind.",
		},
		[]string{"kind"},
	)
	updatesDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tglive_updates_dropped_total",
			Help: "Total number of updates dropped instead of delivered.",
		},
		[]string{"reason"},
	)
	subscriptionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tglive_subscriptions_active",
			Help: "Number of live entity subscriptions.",
		},
		[]string{"kind"},
	)
	gatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tglive_gateway_calls_total",
			Help: "Total number of correlated gateway calls, by request and outcome.",
		},
		[]string{"request", "status"},
	)
	gatewayCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tglive_gateway_call_duration_seconds",
			Help:    "Gateway call latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"request"},
	)
	joinAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tglive_join_attempts_total",
			Help: "Total number of call join attempts, by outcome.",
		},
		[]string{"outcome"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tglive_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tglive_ws_events_total",
			Help: "Total number of websocket lifecycle events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tglive_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		updatesRoutedTotal,
		updatesDroppedTotal,
		subscriptionsActive,
		gatewayCallsTotal,
		gatewayCallDuration,
		joinAttemptsTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncUpdateRouted(kind string) {
	updatesRoutedTotal.WithLabelValues(kind).Inc()
}

func IncUpdateDropped(reason string) {
	updatesDroppedTotal.WithLabelValues(reason).Inc()
}

func IncSubscription(kind string) {
	subscriptionsActive.WithLabelValues(kind).Inc()
}

func DecSubscription(kind string) {
	subscriptionsActive.WithLabelValues(kind).Dec()
}

func ObserveGatewayCall(request, status string, elapsed time.Duration) {
	gatewayCallsTotal.WithLabelValues(request, status).Inc()
	gatewayCallDuration.WithLabelValues(request).Observe(elapsed.Seconds())
}

func IncJoinAttempt(outcome string) {
	joinAttemptsTotal.WithLabelValues(outcome).Inc()
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
