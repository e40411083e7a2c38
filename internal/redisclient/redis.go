// Package redisclient builds the shared Redis client used for rate limiting and readiness checks.
package redisclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"hustlehub/internal/middleware"
	"hustlehub/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Options turns a REDIS_URL value into client options. Both "redis://" URLs and bare "host:port" are accepted.
func Options(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// Connect returns a client, or nil when addr is empty or invalid. An unreachable Redis still
// yields a client so readiness can report it, and the pool reconnects once Redis is back.
func Connect(ctx context.Context, addr string) *redis.Client {
	if strings.TrimSpace(addr) == "" {
		middleware.Logger.Info("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := Options(addr)
	if err != nil {
		middleware.Logger.Warn("invalid REDIS_URL, running without redis", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable at startup", "addr", opts.Addr, "error", err)
		return client
	}

	middleware.Logger.Info("redis connected", "addr", opts.Addr)
	return client
}
