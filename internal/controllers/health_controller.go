package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// HealthController reports the liveness of the service and its
// dependencies.
type HealthController struct {
	service string
	checks  map[string]HealthCheck
}

func NewHealthController(service string, checks map[string]HealthCheck) *HealthController {
	return &HealthController{
		service: service,
		checks:  checks,
	}
}

// Health handles GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	dependencies := gin.H{}
	for name, check := range ctrl.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			dependencies[name] = gin.H{"status": "down", "error": err.Error()}
			continue
		}
		dependencies[name] = gin.H{"status": "up"}
	}

	c.JSON(status, gin.H{
		"service":      ctrl.service,
		"status":       statusText(status),
		"timestamp":    time.Now().UTC(),
		"dependencies": dependencies,
	})
}

func statusText(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
