package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"ikam/internal/infrastructure/ratelimit"
	"ikam/pkg/errors"
	"ikam/pkg/logger"
	"ikam/pkg/response"
)

// RateLimit throttles requests per authenticated user, falling back to the
// client IP on routes that run before authentication.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, ok := c.Get("uid").(string)
			if !ok || key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(key, ratelimit.ActionHTTP)
			if !allowed {
				logger.Warn("RATE LIMIT: key=%s, path=%s, retry_in=%v", key, c.Path(), wait)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}

			return next(c)
		}
	}
}
