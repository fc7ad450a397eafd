package mcp

import (
	"encoding/json"

	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
)

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status      string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Transceiver string `json:"transceiver" jsonschema:"description=IR bridge connection status"`
	Timestamp   string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	DeviceIDs []string `json:"device_ids" jsonschema:"description=Stored device ids in ascending order"`
	Count     int      `json:"count" jsonschema:"description=Total number of devices"`
}

// ControlInfo represents a control in tool outputs
type ControlInfo struct {
	Name     string         `json:"name" jsonschema:"description=Control name"`
	Kind     control.Kind   `json:"kind" jsonschema:"description=Control kind"`
	State    any            `json:"state" jsonschema:"description=Tracked state"`
	Domain   control.Domain `json:"domain" jsonschema:"description=States the control may hold"`
	Commands []string       `json:"commands" jsonschema:"description=Command ids this control accepts"`
}

// DeviceInfo represents a device in tool outputs
type DeviceInfo struct {
	ID       string        `json:"id" jsonschema:"description=Device id"`
	Profile  string        `json:"profile" jsonschema:"description=Device profile"`
	Controls []ControlInfo `json:"controls" jsonschema:"description=Controls, power first"`
}

// GetDeviceOutput is the output for the get_device, put_device and
// learn_control tools
type GetDeviceOutput struct {
	Device DeviceInfo `json:"device" jsonschema:"description=Device information"`
}

// ExecuteCommandOutput is the output for the execute_command tool
type ExecuteCommandOutput struct {
	DeviceID  string      `json:"device_id" jsonschema:"description=Device id"`
	CommandID string      `json:"command_id" jsonschema:"description=Executed command"`
	Control   ControlInfo `json:"control" jsonschema:"description=Control after the command"`
}

// DeleteDeviceOutput is the output for the delete_device tool
type DeleteDeviceOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the device was deleted"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// KindInfo describes a control kind
type KindInfo struct {
	Kind        control.Kind `json:"kind"`
	Description string       `json:"description"`
}

// ListProfilesOutput is the output for the list_profiles tool
type ListProfilesOutput struct {
	Profiles     []device.Profile `json:"profiles" jsonschema:"description=Device profiles"`
	Kinds        []KindInfo       `json:"kinds" jsonschema:"description=Control kinds"`
	RecordSchema json.RawMessage  `json:"record_schema" jsonschema:"description=JSON Schema of the record accepted by put_device"`
}

// ControlToInfo converts a control to ControlInfo
func ControlToInfo(c control.Control) ControlInfo {
	ops := c.Operations()
	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i] = device.CommandID(c.Name(), op)
	}
	return ControlInfo{
		Name:     c.Name(),
		Kind:     c.Kind(),
		State:    c.State(),
		Domain:   c.Domain(),
		Commands: ids,
	}
}

// DeviceToInfo converts a device to DeviceInfo
func DeviceToInfo(d *device.Device) DeviceInfo {
	controls := d.Controls()
	infos := make([]ControlInfo, len(controls))
	for i, c := range controls {
		infos[i] = ControlToInfo(c)
	}
	return DeviceInfo{ID: d.ID(), Profile: d.Profile(), Controls: infos}
}
