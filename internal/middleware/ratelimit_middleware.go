package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"messagely/internal/redis"
	messagely_errors "messagely/pkg/errors"
	"messagely/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware counts attempts per client IP on the auth endpoints.
// A successful login clears the counter. A nil limiter disables it.
func RateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	if l == nil {
		l = logger.NewNop()
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if limiter == nil || !isAuthEndpoint(path) {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		result, err := limiter.AllowAuth(c.Request.Context(), clientIP)
		if err != nil {
			abortWithError(c, fmt.Errorf("rate limit error: %w", err))
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			abortWithError(c, messagely_errors.ErrRateLimited)
			return
		}

		c.Next()

		if path == loginPath && c.Writer.Status() == http.StatusOK {
			if err := limiter.ResetAuth(c.Request.Context(), clientIP); err != nil {
				l.ErrorCtx(c.Request.Context(), "rate limit reset failed", zap.String("client_ip", clientIP), zap.Error(err))
			}
		}
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

const loginPath = "/auth/login"

func isAuthEndpoint(path string) bool {
	switch path {
	case loginPath, "/auth/register":
		return true
	}
	return false
}
