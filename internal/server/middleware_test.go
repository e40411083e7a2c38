package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hustlehub/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowedOrigin = "http://localhost:3000"

func (e *testEnv) send(req *http.Request) *http.Response {
	e.t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	resp := env.send(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestPreflightSkipsAuthGate(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", allowedOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := env.send(req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, allowedOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestUnknownOriginGetsNoCORSHeaders(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := env.send(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimitedResponseKeepsCORSHeaders(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testutil.NewTestConfig()
	cfg.RateLimitEnabled = true
	env := newTestEnvWith(t, cfg, rdb)

	login := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"nobody@example.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", allowedOrigin)
		return env.send(req)
	}

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusUnauthorized, login().StatusCode)
	}

	resp := login()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, allowedOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestGlobalLimiterSparesPreflight(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.RateLimitEnabled = true
	cfg.GlobalRateLimit = 3
	env := newTestEnvWith(t, cfg, nil)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, env.send(httptest.NewRequest(http.MethodGet, "/", nil)).StatusCode)
	}
	resp := env.send(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", allowedOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	assert.Equal(t, http.StatusNoContent, env.send(req).StatusCode)
}
