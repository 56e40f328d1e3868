package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VoteDenials counts permission-evaluator denials by reason code.
	VoteDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meriter_vote_denials_total",
		Help: "Vote permission denials by reason code",
	}, []string{"reason"})

	// QuotaConsumed counts merit quota consumed by usage type.
	QuotaConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meriter_quota_consumed_total",
		Help: "Merit quota consumed by usage type",
	}, []string{"usage_type"})

	// MeritSettled counts merit moved by settlement kind (vote, tappalka, investment).
	MeritSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meriter_merit_settled_total",
		Help: "Merit moved by settlement kind",
	}, []string{"kind"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meriter_redis_errors_total",
		Help: "Redis command failures by command",
	}, []string{"command"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
