package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// recoverMiddleware turns a handler panic into a 500 response.
func (s *Server) recoverMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					zl := s.log.Zerolog()
					zl.Error().Err(perr).Str("path", c.Request().URL.Path).
						Bytes("stack", debug.Stack()).Msg("panic recovered")
					err = c.JSON(http.StatusInternalServerError, Response{
						Success: false,
						Error:   "internal server error",
						Code:    CodeInternal,
					})
				}
			}()
			return next(c)
		}
	}
}

// loggingMiddleware logs one structured line per request.
func (s *Server) loggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			zl := s.log.Zerolog()
			ev := zl.Info()
			switch {
			case res.Status >= 500:
				ev = zl.Error()
			case res.Status >= 400:
				ev = zl.Warn()
			}
			ev.Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("route", c.Path()).
				Str("ip", c.RealIP()).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}

// metricsMiddleware records request counts and latency by route template.
func (s *Server) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			s.metrics.ObserveHTTP(route, c.Request().Method, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// rateLimitMiddleware rejects clients that exceed their token bucket.
func (s *Server) rateLimitMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.limiter.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, Response{
					Success: false,
					Error:   "rate limit exceeded",
					Code:    CodeRateLimited,
				})
			}
			return next(c)
		}
	}
}

const (
	limiterIdle     = 10 * time.Minute
	limiterPruneLen = 1024
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	ips map[string]*ipLimiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

// NewIPRateLimiter creates a limiter allowing r events per second with
// bursts of b per client.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*ipLimiter),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

// GetLimiter returns the bucket for ip, creating it on first use.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, exists := l.ips[ip]
	if !exists {
		if len(l.ips) >= limiterPruneLen {
			l.prune(now)
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	lim := l.GetLimiter(ip)
	return lim.AllowN(l.now(), 1)
}

// tracked returns the number of clients with a bucket.
func (l *IPRateLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// prune drops idle clients. Called with mu held.
func (l *IPRateLimiter) prune(now time.Time) {
	for ip, entry := range l.ips {
		if now.Sub(entry.lastSeen) > limiterIdle {
			delete(l.ips, ip)
		}
	}
}
