package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/irhome/pkg/api/types"
	"github.com/urmzd/irhome/pkg/device"
)

// CommandsHandler handles command execution endpoints
type CommandsHandler struct {
	controller device.Controller
}

// NewCommandsHandler creates a new commands handler
func NewCommandsHandler(controller device.Controller) *CommandsHandler {
	return &CommandsHandler{controller: controller}
}

// ExecuteCommand handles POST /devices/:id/commands
// @Summary      Execute command
// @Description  Runs one operation of a control, e.g. "volume.up". The IR signal is emitted before the new state is stored.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Device id"
// @Param        request  body      types.ExecuteCommandRequest  true  "Command to execute"
// @Success      200      {object}  types.ExecuteCommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request or device id mismatch"
// @Failure      404      {object}  types.ErrorResponse  "Device or operation not found"
// @Failure      409      {object}  types.ErrorResponse  "Control at boundary"
// @Failure      422      {object}  types.ErrorResponse  "Operation has no learned command"
// @Failure      502      {object}  types.ErrorResponse  "IR emission failed"
// @Failure      503      {object}  types.ErrorResponse  "IR bridge not connected"
// @Router       /devices/{id}/commands [post]
func (h *CommandsHandler) ExecuteCommand(c *gin.Context) {
	id := c.Param("id")

	var req types.ExecuteCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.DeviceID != id {
		writeError(c, fmt.Errorf("%w: path %q, body %q", device.ErrIDMismatch, id, req.DeviceID))
		return
	}
	name, _, err := device.ParseCommandID(req.CommandID)
	if err != nil {
		writeError(c, err)
		return
	}

	d, err := h.controller.ExecuteCommand(c.Request.Context(), id, req.CommandID)
	if err != nil {
		writeError(c, err)
		return
	}

	ctrl, _ := d.Control(name)
	c.JSON(http.StatusOK, types.ExecuteCommandResponse{
		DeviceID:  id,
		CommandID: req.CommandID,
		Control:   types.NewControlView(ctrl),
		Timestamp: time.Now(),
	})
}
