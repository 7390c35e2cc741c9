package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/pkg/config"
)

type fakeLimiter struct {
	decision Decision
	err      error
	keys     []string
}

func (f *fakeLimiter) Take(_ context.Context, key string) (Decision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func rateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{Enabled: true, Capacity: 5, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl:test"}
}

func limitedRouter(cfg config.RateLimitConfig, limiter Limiter) *gin.Engine {
	return limitedRouterBehind(cfg, limiter, nil)
}

func limitedRouterBehind(cfg config.RateLimitConfig, limiter Limiter, proxies []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	_ = router.SetTrustedProxies(proxies)
	router.POST("/registrations", RateLimit(cfg, limiter, nil), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func post(router *gin.Engine) *httptest.ResponseRecorder {
	return postForwarded(router, "")
}

func postForwarded(router *gin.Engine, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/registrations", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllows(t *testing.T) {
	limiter := &fakeLimiter{decision: Decision{Allowed: true, Remaining: 4}}
	rec := post(limitedRouter(rateLimitConfig(), limiter))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "rl:test:ip:10.0.0.7:POST /registrations", limiter.keys[0])
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	limiter := &fakeLimiter{decision: Decision{Allowed: true, Remaining: 4}}
	router := limitedRouter(rateLimitConfig(), limiter)

	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		rec := postForwarded(router, spoofed)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	require.Len(t, limiter.keys, 3)
	for _, key := range limiter.keys {
		assert.Equal(t, "rl:test:ip:10.0.0.7:POST /registrations", key)
	}
}

func TestRateLimitHonorsForwardedForFromTrustedProxy(t *testing.T) {
	limiter := &fakeLimiter{decision: Decision{Allowed: true, Remaining: 4}}
	router := limitedRouterBehind(rateLimitConfig(), limiter, []string{"10.0.0.0/8"})

	rec := postForwarded(router, "203.0.113.9")
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "rl:test:ip:203.0.113.9:POST /registrations", limiter.keys[0])
}

func TestRateLimitRejects(t *testing.T) {
	limiter := &fakeLimiter{decision: Decision{Allowed: false, RetryAfter: 1500 * time.Millisecond}}
	rec := post(limitedRouter(rateLimitConfig(), limiter))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	rec := post(limitedRouter(rateLimitConfig(), limiter))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := rateLimitConfig()
	cfg.Enabled = false
	limiter := &fakeLimiter{decision: Decision{Allowed: false}}

	rec := post(limitedRouter(cfg, limiter))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, limiter.keys)
}

func TestRedisTokenBucketUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	bucket := NewRedisTokenBucket(client, rateLimitConfig())
	_, err := bucket.Take(context.Background(), "rl:test:key")
	require.Error(t, err)

	rec := post(limitedRouter(rateLimitConfig(), bucket))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestParseDecision(t *testing.T) {
	d, err := parseDecision([]interface{}{int64(1), int64(3), int64(0)})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(3), d.Remaining)

	d, err = parseDecision([]interface{}{int64(0), "0", int64(250)})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 250*time.Millisecond, d.RetryAfter)

	_, err = parseDecision("OK")
	assert.Error(t, err)
}
