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
		Name: "inmoplaza_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AvailabilityWindowsCreated counts successfully created availability windows.
	AvailabilityWindowsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inmoplaza_availability_windows_created_total",
		Help: "Total number of availability windows created",
	})

	// AvailabilityWindowsRejected counts rejected window creations by reason.
	AvailabilityWindowsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inmoplaza_availability_windows_rejected_total",
		Help: "Total number of availability window creations rejected, by reason",
	}, []string{"reason"})

	// CommentsCreated counts created comments, split by whether they carry a rating.
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inmoplaza_comments_created_total",
		Help: "Total number of comments created, by rated flag",
	}, []string{"rated"})

	// CommentsDeleted counts deleted comments by the deleting party.
	CommentsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inmoplaza_comments_deleted_total",
		Help: "Total number of comments deleted, by who deleted them",
	}, []string{"by"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records per-request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
