package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/irhome/pkg/api/types"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/device/schema"
)

// maxRecordSize caps the body of PUT /devices/:id.
const maxRecordSize = 1 << 20

// DevicesHandler handles device CRUD endpoints
type DevicesHandler struct {
	controller device.Controller
	validator  *schema.Validator
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(controller device.Controller, validator *schema.Validator) *DevicesHandler {
	return &DevicesHandler{controller: controller, validator: validator}
}

// ListDevices handles GET /devices
// @Summary      List devices
// @Description  Returns the ids of all stored devices in ascending order
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	ids, err := h.controller.ListDevices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		DeviceIDs: ids,
		Count:     len(ids),
	})
}

// GetDevice handles GET /devices/:id
// @Summary      Get device
// @Description  Returns a device with the state, domain and operations of every control
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.DeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	d, err := h.controller.GetDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewDeviceResponse(d))
}

// PutDevice handles PUT /devices/:id
// @Summary      Create or replace device
// @Description  Stores a device record. The record is validated against the device schema and its device_id must match the path.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Device id"
// @Param        request  body      object  true  "Device record"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid record"
// @Failure      409      {object}  types.ErrorResponse  "Duplicate control name"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /devices/{id} [put]
func (h *DevicesHandler) PutDevice(c *gin.Context) {
	id := c.Param("id")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecordSize))
	if err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.validator.ValidateDevice(body); err != nil {
		writeError(c, fmt.Errorf("%w: %w", device.ErrValidation, err))
		return
	}

	var d device.Device
	if err := json.Unmarshal(body, &d); err != nil {
		writeError(c, err)
		return
	}
	if err := h.controller.PutDevice(c.Request.Context(), id, &d); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewDeviceResponse(&d))
}

// DeleteDevice handles DELETE /devices/:id
// @Summary      Delete device
// @Description  Removes a device and its learned commands
// @Tags         devices
// @Param        id   path  string  true  "Device id"
// @Success      204  "Device deleted"
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices/{id} [delete]
func (h *DevicesHandler) DeleteDevice(c *gin.Context) {
	if err := h.controller.DeleteDevice(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
