package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dhukuti/internal/shared/utils/response"
	"dhukuti/pkg/logger"
)

// Middleware limits every request by client IP using the limit type of its route.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		enforce(c, rateLimiter, getRateLimitType(c.FullPath()), c.ClientIP())
	}
}

// ForType limits a single route group with limitType. Authenticated callers are keyed by
// user id so that users behind one address do not share a budget.
func ForType(rateLimiter *RateLimiter, limitType RateLimitType) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if userID := c.GetString("user_id"); userID != "" {
			identifier = "user:" + userID
		}
		enforce(c, rateLimiter, limitType, identifier)
	}
}

func enforce(c *gin.Context, rateLimiter *RateLimiter, limitType RateLimitType, identifier string) {
	result, err := rateLimiter.IsAllowed(c.Request.Context(), identifier, limitType)
	if err != nil {
		// Fail open.
		logger.GetDefault().WithError(err).Warn("Rate limit check failed", "type", string(limitType))
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

	if !result.Allowed {
		logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), identifier, c.FullPath())
		response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded", map[string]interface{}{
			"limit":      result.Limit,
			"reset_time": result.ResetTime,
		})
		c.Abort()
		return
	}

	c.Next()
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.HasSuffix(path, "/tickets/purchase"):
		return RateLimitTypePurchase

	case strings.Contains(path, "/wizards"):
		return RateLimitTypeWizard

	case strings.Contains(path, "/events"),
		strings.Contains(path, "/tags"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
