package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docsummary/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	summaryService service.SummaryService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(summaryService service.SummaryService) *HealthHandler {
	return &HealthHandler{summaryService: summaryService}
}

// Liveness handles GET /healthz
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness check
// @Description Ready when at least one backend has a credential.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.summaryService.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "no backend credential configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Backends handles GET /api/v1/backends
// @Summary List summarization backends
// @Tags health
// @Produce json
// @Success 200 {array} domain.BackendInfo
// @Router /api/v1/backends [get]
func (h *HealthHandler) Backends(c *gin.Context) {
	c.JSON(http.StatusOK, h.summaryService.Backends())
}
