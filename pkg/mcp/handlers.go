package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/device/schema"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, bridge := "healthy", "connected"
	if !s.controller.IsConnected() {
		status, bridge = "unhealthy", "disconnected"
	}

	out := GetHealthOutput{
		Status:      status,
		Transceiver: bridge,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.controller.ListDevices(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list devices: %s", err)), nil
	}
	if ids == nil {
		ids = []string{}
	}

	out := ListDevicesOutput{
		DeviceIDs: ids,
		Count:     len(ids),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.controller.GetDevice(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get device: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(GetDeviceOutput{Device: DeviceToInfo(d)})), nil
}

func (s *Server) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commandID, err := requiredString(request, "command_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, _, err := device.ParseCommandID(commandID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.controller.ExecuteCommand(ctx, id, commandID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to execute %s on %s: %s", commandID, id, err)), nil
	}

	ctrl, _ := d.Control(name)
	out := ExecuteCommandOutput{
		DeviceID:  id,
		CommandID: commandID,
		Control:   ControlToInfo(ctrl),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handlePutDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	record, ok := request.GetArguments()["record"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError(`required parameter "record" must be an object`), nil
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid record: %s", err)), nil
	}
	if err := s.validator.ValidateDevice(raw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	var d device.Device
	if err := json.Unmarshal(raw, &d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid record: %s", err)), nil
	}
	if err := s.controller.PutDevice(ctx, id, &d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store device: %s", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(GetDeviceOutput{Device: DeviceToInfo(&d)})), nil
}

func (s *Server) handleDeleteDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.controller.DeleteDevice(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete device: %s", err)), nil
	}

	out := DeleteDeviceOutput{
		Success: true,
		Message: fmt.Sprintf("Device %q deleted", id),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleLearnControl(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := requiredString(request, "kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spec := control.Spec{
		Name:   name,
		Kind:   control.Kind(kind),
		Min:    request.GetInt("min", 0),
		Max:    request.GetInt("max", 0),
		Labels: request.GetStringSlice("labels", nil),
	}

	ctx, cancel := context.WithTimeout(ctx, device.LearnTimeout(request.GetInt("timeout_seconds", 0)))
	defer cancel()

	d, err := s.controller.LearnControl(ctx, id, spec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to learn %s: %s", name, err)), nil
	}

	return mcp.NewToolResultText(formatJSON(GetDeviceOutput{Device: DeviceToInfo(d)})), nil
}

func (s *Server) handleListProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kinds := control.Kinds()
	infos := make([]KindInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = KindInfo{Kind: k, Description: control.Describe(k)}
	}

	out := ListProfilesOutput{
		Profiles:     device.Profiles(),
		Kinds:        infos,
		RecordSchema: schema.DeviceSchema(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
