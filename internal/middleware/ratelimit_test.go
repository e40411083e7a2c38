package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimiterAllow(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	l := NewRateLimiter(rdb, true, FailOpen)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, err := l.Allow(ctx, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow(ctx, "login", "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "other clients have their own window")

	mr.FastForward(time.Minute + time.Second)
	allowed, err = l.Allow(ctx, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window expired")
}

func TestRateLimiterDisabledAndNil(t *testing.T) {
	allowed, err := NewRateLimiter(nil, false, FailOpen).Allow(context.Background(), "x", "y", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)

	_, err = NewRateLimiter(nil, true, FailOpen).Allow(context.Background(), "x", "y", 1, time.Minute)
	assert.ErrorIs(t, err, errNoStore)
}

func TestRateLimiterMiddleware(t *testing.T) {
	_, rdb := newMiniRedis(t)

	app := fiber.New()
	app.Post("/login", NewRateLimiter(rdb, true, FailOpen).Limit("login", 2, time.Minute),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, statuses)
}

func TestRateLimiterFailurePolicies(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	mr.Close()

	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	open := fiber.New()
	open.Post("/x", NewRateLimiter(rdb, true, FailOpen).Limit("x", 1, time.Minute), handler)
	resp, err := open.Test(httptest.NewRequest(http.MethodPost, "/x", nil), 10000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	closed := fiber.New()
	closed.Post("/x", NewRateLimiter(rdb, true, FailClosed).Limit("x", 1, time.Minute), handler)
	resp, err = closed.Test(httptest.NewRequest(http.MethodPost, "/x", nil), 10000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
