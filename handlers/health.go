package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"connectify/utils"
)

// HealthCheck reports dependency health. Unhealthy dependencies yield 503
// so load balancers rotate the instance out.
func HealthCheck(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
