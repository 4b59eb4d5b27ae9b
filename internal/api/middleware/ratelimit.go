package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit throttles requests per client IP using a token bucket. Buckets
// idle longer than an hour are dropped on the next sweep.
func RateLimit(rps rate.Limit, burst int) echo.MiddlewareFunc {
	type bucket struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
		swept   = time.Now()
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			mu.Lock()
			b, ok := buckets[ip]
			if !ok {
				b = &bucket{limiter: rate.NewLimiter(rps, burst)}
				buckets[ip] = b
			}
			b.lastSeen = time.Now()

			if time.Since(swept) > time.Hour {
				for k, v := range buckets {
					if time.Since(v.lastSeen) > time.Hour {
						delete(buckets, k)
					}
				}
				swept = time.Now()
			}
			mu.Unlock()

			if !b.limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
