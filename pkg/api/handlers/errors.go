package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/irhome/pkg/api/types"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/ir"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// First match wins. Emission failures caused by a missing bridge report
// not_connected.
var errorMappings = []errorMapping{
	{device.ErrNotFound, http.StatusNotFound, "not_found"},
	{control.ErrUnknownOperation, http.StatusNotFound, "unknown_operation"},
	{device.ErrDuplicateControlName, http.StatusConflict, "duplicate_control"},
	{control.ErrBoundary, http.StatusConflict, "boundary"},
	{control.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
	{control.ErrMissingCommand, http.StatusUnprocessableEntity, "missing_command"},
	{device.ErrIDMismatch, http.StatusBadRequest, "id_mismatch"},
	{device.ErrInvalidCommandID, http.StatusBadRequest, "invalid_command_id"},
	{device.ErrProfileMismatch, http.StatusBadRequest, "profile_mismatch"},
	{device.ErrValidation, http.StatusBadRequest, "validation_error"},
	{control.ErrInvalidSpec, http.StatusBadRequest, "invalid_spec"},
	{ir.ErrNotConnected, http.StatusServiceUnavailable, "not_connected"},
	{ir.ErrCaptureTimeout, http.StatusGatewayTimeout, "capture_timeout"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
	{control.ErrEmission, http.StatusBadGateway, "emission_failed"},
}

// statusFor maps an error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "controller_error"
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.JSON(status, types.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}
