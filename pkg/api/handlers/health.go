package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/irhome/pkg/api/types"
	"github.com/urmzd/irhome/pkg/device"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	controller device.Controller
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller device.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the IR bridge
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "IR bridge unreachable"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, httpStatus, bridge := "healthy", http.StatusOK, "connected"
	if !h.controller.IsConnected() {
		status, httpStatus, bridge = "degraded", http.StatusServiceUnavailable, "disconnected"
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:      status,
		Transceiver: bridge,
		Timestamp:   time.Now(),
	})
}
