package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/services"
	"github.com/viccabs/booking-service/internal/utils"
)

// RateLimit rejects clients that exceed the limiter's budget with 429
func RateLimit(limiter *services.RateLimitService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := utils.GetRealIP(c)

		err := limiter.Check(ip)
		if err == nil {
			c.Next()
			return
		}

		var rateLimitErr *services.RateLimitError
		if !errors.As(err, &rateLimitErr) {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(rateLimitErr.RetryAfter.Seconds()))

		logger.WithFields(logrus.Fields{
			"ip":          ip,
			"limiter":     rateLimitErr.Type,
			"path":        c.Request.URL.Path,
			"retry_after": retryAfter,
			"request_id":  c.GetString(utils.RequestIDKey),
		}).Warn("Rate limit exceeded")

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate_limit_exceeded",
			"message":     rateLimitErr.Message,
			"retry_after": retryAfter,
		})
	}
}
