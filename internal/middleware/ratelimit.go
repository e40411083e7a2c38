package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hustlehub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoStore = errors.New("rate limit store not configured")

// RateLimiter counts requests per client in fixed Redis windows.
type RateLimiter struct {
	rdb     *redis.Client
	enabled bool
	policy  FailPolicy
}

// NewRateLimiter returns a limiter. A nil client or enabled=false lets every request through.
func NewRateLimiter(rdb *redis.Client, enabled bool, policy FailPolicy) *RateLimiter {
	return &RateLimiter{rdb: rdb, enabled: enabled, policy: policy}
}

// Allow reports whether id may make another request to resource within window.
func (l *RateLimiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if !l.enabled {
		return true, nil
	}
	if l.rdb == nil {
		return false, errNoStore
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// Limit returns a Fiber middleware enforcing limit requests per window for the named resource.
// Clients are keyed by authenticated user when known, otherwise by remote IP.
func (l *RateLimiter) Limit(resource string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid, ok := c.Locals(LocalUserID).(uint); ok {
			id = fmt.Sprintf("user:%d", uid)
		}

		allowed, err := l.Allow(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if l.policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					"resource", resource, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			if !errors.Is(err, errNoStore) {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing open",
					"resource", resource, "error", err)
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimited.WithLabelValues(resource).Inc()
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
