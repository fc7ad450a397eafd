package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/irhome/pkg/api/types"
	"github.com/urmzd/irhome/pkg/device"
)

// LearnHandler handles command learning endpoints
type LearnHandler struct {
	controller device.Controller
}

// NewLearnHandler creates a new learn handler
func NewLearnHandler(controller device.Controller) *LearnHandler {
	return &LearnHandler{controller: controller}
}

// LearnControl handles POST /devices/:id/controls
// @Summary      Learn control
// @Description  Captures one IR command per operation of a new control from the bridge receiver and attaches the control to the device. The request blocks until every command is captured or the timeout expires (default 120s, max 600s).
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Device id"
// @Param        request  body      types.LearnControlRequest  true  "Control to learn"
// @Success      201      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid control definition"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Failure      409      {object}  types.ErrorResponse  "Control name already used"
// @Failure      503      {object}  types.ErrorResponse  "IR bridge not connected"
// @Failure      504      {object}  types.ErrorResponse  "No signal captured in time"
// @Router       /devices/{id}/controls [post]
func (h *LearnHandler) LearnControl(c *gin.Context) {
	var req types.LearnControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), device.LearnTimeout(req.TimeoutSeconds))
	defer cancel()

	d, err := h.controller.LearnControl(ctx, c.Param("id"), req.Spec())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewDeviceResponse(d))
}
