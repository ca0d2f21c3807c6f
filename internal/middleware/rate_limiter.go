package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/wesglu/checkbox/internal/apierror"

	"github.com/gin-gonic/gin"
)

// In-memory fixed-window limiter keyed by client IP. Two instances guard the
// API: a strict one on /auth/signin (bcrypt makes every guess expensive for
// us too) and a loose blanket one in front of the check routes. State lives
// in process memory; running multiple instances needs a shared store instead.

type limiter struct {
	mu      sync.Mutex
	seen    map[string]*ipWindow
	limit   int
	period  time.Duration
	message string
}

type ipWindow struct {
	count int
	until time.Time
}

func newLimiter(limit int, period time.Duration, message string) *limiter {
	l := &limiter{
		seen:    make(map[string]*ipWindow),
		limit:   limit,
		period:  period,
		message: message,
	}
	go l.purge()
	return l
}

func (l *limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.seen[ip]
	if w == nil || now.After(w.until) {
		w = &ipWindow{until: now.Add(l.period)}
		l.seen[ip] = w
	}
	w.count++
	return w.count <= l.limit
}

// purge drops expired windows so IPs that never return don't accumulate.
func (l *limiter) purge() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, w := range l.seen {
			if now.After(w.until) {
				delete(l.seen, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

var signinLimiter = newLimiter(20, time.Minute,
	"Too many signin attempts. Try again in a minute.")

// SigninRateLimiter caps signin attempts at 20 per minute per IP — enough
// headroom for an office behind one NAT, too slow for credential stuffing.
func SigninRateLimiter() gin.HandlerFunc {
	return signinLimiter.middleware()
}

// RateLimiter is the blanket per-IP limit applied to every route.
func RateLimiter(limit int, per time.Duration) gin.HandlerFunc {
	return newLimiter(limit, per, "Too many requests. Try again in a moment.").middleware()
}
