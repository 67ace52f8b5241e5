package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fixedLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	f.keys = append(f.keys, key)
	return f.allowed, 3, time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC), f.err
}

func newLimitedRouter(l Limiter) http.Handler {
	r := chi.NewRouter()
	r.With(NewRateLimitMiddleware(l, "sessionID").Limit).
		Post("/sessions/{sessionID}/messages", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	return r
}

func TestRateLimit_Allowed(t *testing.T) {
	l := &fixedLimiter{allowed: true}
	rec := httptest.NewRecorder()
	newLimitedRouter(l).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/abc/messages", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2026-01-01T00:01:00Z", rec.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, []string{"abc"}, l.keys)
}

func TestRateLimit_Rejected(t *testing.T) {
	rec := httptest.NewRecorder()
	newLimitedRouter(&fixedLimiter{allowed: false}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/abc/messages", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimit_FailOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	newLimitedRouter(&fixedLimiter{err: errors.New("redis down")}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/abc/messages", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestLocalLimiter(t *testing.T) {
	l := NewLocalLimiter(1, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, _, err := l.Allow(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, reset, err := l.Allow(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))

	// other keys have their own bucket
	allowed, _, _, _ = l.Allow(ctx, "s2")
	assert.True(t, allowed)

	require.NoError(t, l.Reset(ctx, "s1"))
	allowed, _, _, _ = l.Allow(ctx, "s1")
	assert.True(t, allowed)
}

func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("quack"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "quack", rec.Body.String())
}
