package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connectify/config"
	"connectify/utils"
)

// InternalAuthHeader carries the shared secret for internal fulfillment calls.
const InternalAuthHeader = "X-Internal-Auth-Secret"

// InternalAuthMiddleware authenticates requests on the internal fulfillment
// channel. The comparison is constant time; a mismatch aborts before any
// handler (and therefore any gateway call) runs.
func InternalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		expected := config.AppConfig.FulfillmentSharedSecret
		if expected == "" {
			logger.Error("Fulfillment shared secret not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error for fulfillment auth."})
			return
		}

		provided := c.GetHeader(InternalAuthHeader)
		if provided == "" {
			logger.Warn("Fulfillment request missing auth header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing " + InternalAuthHeader + " header."})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			logger.Warn("Fulfillment request with invalid secret", zap.String("ip", getClientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid credentials."})
			return
		}

		c.Next()
	}
}
