package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hustlehub_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hustlehub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hustlehub_auth_failures_total",
		Help: "Total number of rejected authentication attempts",
	}, []string{"reason"})

	// ApplicationsCreated counts accepted application submissions.
	ApplicationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hustlehub_applications_created_total",
		Help: "Total number of applications submitted",
	})

	// ApplicationTransitions counts application status changes by target status.
	ApplicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hustlehub_application_transitions_total",
		Help: "Total number of application status changes",
	}, []string{"status"})

	// RateLimited counts requests rejected by the rate limiter by resource.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hustlehub_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})
)

const queryStartKey = "observability:query_start"

// RegisterQueryMetrics installs GORM callbacks that record query latency per operation and table.
func RegisterQueryMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(name string, fn func(*gorm.DB)) error
		after    func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.register("metrics:before_"+s.op, before); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+s.op, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}
