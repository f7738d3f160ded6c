package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jcbcommunity/internal/config"
)

type clientState struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP. Routes whose names are listed as
// exempt (reaction toggles) are never limited.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientState
	limit   rate.Limit
	burst   int
	exempt  map[string]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

func NewRateLimiter(cfg config.RateLimit, logger *zap.Logger, exemptRoutes ...string) *RateLimiter {
	exempt := make(map[string]struct{}, len(exemptRoutes))
	for _, name := range exemptRoutes {
		exempt[name] = struct{}{}
	}

	return &RateLimiter{
		clients: make(map[string]*clientState),
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		exempt:  exempt,
		logger:  logger,
		now:     time.Now,
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.isExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !l.limiterFor(ip).Allow() {
			l.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("uri", r.RequestURI))
			w.Header().Set("Retry-After", "1")
			writeError(w, "rate limit exceeded", "rate_limited", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) isExempt(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	if route == nil {
		return false
	}
	_, ok := l.exempt[route.GetName()]
	return ok
}

func (l *RateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.clients[ip]
	if !ok {
		state = &clientState{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = state
	}
	state.lastSeen = l.now()

	return state.limiter
}

// Cleanup forgets clients idle for longer than maxIdle and returns how many it removed.
func (l *RateLimiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	cutoff := l.now().Add(-maxIdle)
	for ip, state := range l.clients {
		if state.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
