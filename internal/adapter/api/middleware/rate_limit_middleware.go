package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"swapi/internal/infrastructure/ratelimit"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
	"swapi/pkg/response"
)

// RateLimit limits requests per client IP.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("RATE LIMIT: blocked request from IP %s (retry in %ds)", ip, retryAfter)

				c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests(
					fmt.Sprintf("Rate limit exceeded, retry in %d seconds", retryAfter),
				))
			}

			return next(c)
		}
	}
}
