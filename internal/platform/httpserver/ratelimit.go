package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether key may issue another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter keeps a token bucket per client in process memory.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLocalLimiter allows max requests per window with a burst of max.
func NewLocalLimiter(max int, window time.Duration) *LocalLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(max) / window.Seconds()),
		burst:    max,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) > 10000 {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow(), nil
}

// Counter is a shared fixed-window counter such as cache.Redis.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// WindowLimiter counts requests per fixed window in a shared store so every
// API replica enforces the same budget.
type WindowLimiter struct {
	counter Counter
	scope   string
	max     int64
	window  time.Duration
	now     func() time.Time
}

func NewWindowLimiter(counter Counter, scope string, max int, window time.Duration) *WindowLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &WindowLimiter{
		counter: counter,
		scope:   scope,
		max:     int64(max),
		window:  window,
		now:     time.Now,
	}
}

func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	count, err := l.counter.Incr(ctx, fmt.Sprintf("ratelimit:%s:%s:%d", l.scope, key, bucket), l.window)
	if err != nil {
		return true, err
	}
	return count <= l.max, nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ip := s.clientIP(r)
		if strings.HasPrefix(r.URL.Path, "/api/auth/") && !s.allow(r.Context(), s.authLimit, "auth", ip) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many authentication attempts, try again later")
			return
		}
		if !s.allow(r.Context(), s.apiLimit, "api", ip) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allow(ctx context.Context, limiter Limiter, scope string, key string) bool {
	if limiter == nil {
		return true
	}
	ok, err := limiter.Allow(ctx, key)
	if err != nil {
		s.logger.Warn("rate limiter unavailable, allowing request",
			"event", "rate_limiter_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"scope", scope,
			"error", err.Error(),
		)
		return true
	}
	if !ok {
		s.metrics.ObserveRateLimited(scope)
	}
	return ok
}

func (s *Server) clientIP(r *http.Request) string {
	if s.trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
