package types

import (
	"encoding/json"
	"time"

	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/device/schema"
)

// --- Request DTOs ---

// ExecuteCommandRequest is the request body for POST /devices/:id/commands
type ExecuteCommandRequest struct {
	DeviceID  string `json:"device_id" binding:"required" example:"living-room-tv"`
	CommandID string `json:"command_id" binding:"required" example:"volume.up"`
}

// LearnControlRequest is the request body for POST /devices/:id/controls
type LearnControlRequest struct {
	Name           string       `json:"name" binding:"required" example:"volume"`
	Kind           control.Kind `json:"kind" binding:"required" example:"level"`
	State          any          `json:"state,omitempty"`
	Min            int          `json:"min,omitempty"`
	Max            int          `json:"max,omitempty" example:"30"`
	Labels         []string     `json:"labels,omitempty"`
	TimeoutSeconds int          `json:"timeout_seconds,omitempty" example:"120"`
}

// Spec converts the request into a control description.
func (r LearnControlRequest) Spec() control.Spec {
	return control.Spec{
		Name:   r.Name,
		Kind:   r.Kind,
		State:  r.State,
		Min:    r.Min,
		Max:    r.Max,
		Labels: r.Labels,
	}
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status      string    `json:"status"`
	Transceiver string    `json:"transceiver"`
	Timestamp   time.Time `json:"timestamp"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	DeviceIDs []string `json:"device_ids"`
	Count     int      `json:"count"`
}

// ControlView describes one control of a device
type ControlView struct {
	Name        string         `json:"name"`
	Kind        control.Kind   `json:"kind"`
	Description string         `json:"description"`
	State       any            `json:"state"`
	Domain      control.Domain `json:"domain"`
	Operations  []string       `json:"operations"`
}

// DeviceResponse is returned from GET /devices/:id and every call that
// changes a device
type DeviceResponse struct {
	DeviceID   string        `json:"device_id"`
	Profile    string        `json:"profile"`
	Controls   []ControlView `json:"controls"`
	CommandIDs []string      `json:"command_ids"`
}

// ExecuteCommandResponse is returned from POST /devices/:id/commands
type ExecuteCommandResponse struct {
	DeviceID  string      `json:"device_id"`
	CommandID string      `json:"command_id"`
	Control   ControlView `json:"control"`
	Timestamp time.Time   `json:"timestamp"`
}

// ProfilesResponse is returned from GET /profiles
type ProfilesResponse struct {
	Profiles []device.Profile `json:"profiles"`
	Kinds    []KindView       `json:"kinds"`

	// RecordSchema is the JSON Schema PUT /devices/{id} validates against
	RecordSchema json.RawMessage `json:"record_schema" swaggertype:"object"`
}

// KindView describes a control kind
type KindView struct {
	Kind        control.Kind `json:"kind"`
	Description string       `json:"description"`
	Commands    []string     `json:"commands"`
}

// NewControlView builds the view of a control.
func NewControlView(c control.Control) ControlView {
	return ControlView{
		Name:        c.Name(),
		Kind:        c.Kind(),
		Description: control.Describe(c.Kind()),
		State:       c.State(),
		Domain:      c.Domain(),
		Operations:  c.Operations(),
	}
}

// NewDeviceResponse builds the view of a device.
func NewDeviceResponse(d *device.Device) DeviceResponse {
	controls := d.Controls()
	views := make([]ControlView, 0, len(controls))
	for _, c := range controls {
		views = append(views, NewControlView(c))
	}
	return DeviceResponse{
		DeviceID:   d.ID(),
		Profile:    d.Profile(),
		Controls:   views,
		CommandIDs: d.CommandIDs(),
	}
}

// NewProfilesResponse lists device profiles and control kinds.
func NewProfilesResponse() ProfilesResponse {
	kinds := control.Kinds()
	views := make([]KindView, 0, len(kinds))
	for _, k := range kinds {
		views = append(views, KindView{Kind: k, Description: control.Describe(k), Commands: control.RequiredCommands(k)})
	}
	return ProfilesResponse{Profiles: device.Profiles(), Kinds: views, RecordSchema: schema.DeviceSchema()}
}
