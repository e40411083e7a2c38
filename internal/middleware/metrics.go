package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector.
// The collector registers on the default Prometheus registry, so it is created once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request count and latency.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
