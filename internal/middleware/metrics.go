package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entangl_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FollowTransitions counts follow state machine transitions by kind
	// (requested, cancelled, unfollowed, accepted, declined).
	FollowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entangl_follow_transitions_total",
		Help: "Total number of follow state machine transitions",
	}, []string{"transition"})

	// FeedQueries counts feed/listing queries by variant (general, following, profile).
	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entangl_feed_queries_total",
		Help: "Total number of feed queries by variant",
	}, []string{"variant"})

	// ActiveWebSockets is the gauge of open notification WebSocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "entangl_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entangl_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler recording per-route HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
