package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	secretConfigured bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(secretConfigured bool) *HealthHandler {
	return &HealthHandler{secretConfigured: secretConfigured}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Without a webhook secret every delivery
// would be rejected, so the receiver reports unavailable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.secretConfigured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "webhook secret not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
