package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/irhome/pkg/device/schema"
	"github.com/urmzd/irhome/pkg/ir"
	"github.com/urmzd/irhome/pkg/ir/irtest"
	"github.com/urmzd/irhome/pkg/remote"
	"github.com/urmzd/irhome/pkg/store"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func newTestServer(t *testing.T, rec *irtest.Recorder) *Server {
	t.Helper()
	ctrl := remote.New(store.NewMemory(), rec)
	t.Cleanup(func() { _ = ctrl.Close() })
	return NewServer(ctrl, schema.NewValidator(), "test")
}

var lampRecord = map[string]any{
	"device_id": "lamp",
	"controls": map[string]any{
		"power": map[string]any{
			"kind":            "toggle",
			"state":           false,
			"possible_states": []any{true, false},
			"commands": map[string]any{
				"on":  map[string]any{"name": "power.toggle", "pulses": []any{9000, 4500}},
				"off": map[string]any{"name": "power.toggle", "pulses": []any{9000, 4500}},
			},
		},
	},
}

func TestTools_DeviceLifecycle(t *testing.T) {
	rec := irtest.NewRecorder(ir.Command{Pulses: []int{600, 1700}})
	s := newTestServer(t, rec)

	text, isErr := call(t, s.handlePutDevice, map[string]any{"id": "lamp", "record": lampRecord})
	require.False(t, isErr, text)

	text, isErr = call(t, s.handleListDevices, nil)
	require.False(t, isErr)
	var list ListDevicesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &list))
	assert.Equal(t, []string{"lamp"}, list.DeviceIDs)

	text, isErr = call(t, s.handleExecuteCommand, map[string]any{"id": "lamp", "command_id": "power.toggle"})
	require.False(t, isErr, text)
	var exec ExecuteCommandOutput
	require.NoError(t, json.Unmarshal([]byte(text), &exec))
	assert.Equal(t, true, exec.Control.State)
	assert.Equal(t, []string{"power.toggle"}, rec.Emitted())

	text, isErr = call(t, s.handleLearnControl, map[string]any{"id": "lamp", "name": "night", "kind": "stateless"})
	require.False(t, isErr, text)
	var got GetDeviceOutput
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	require.Len(t, got.Device.Controls, 2)
	assert.Equal(t, []string{"night.set"}, got.Device.Controls[1].Commands)

	_, isErr = call(t, s.handleDeleteDevice, map[string]any{"id": "lamp"})
	require.False(t, isErr)
	text, isErr = call(t, s.handleGetDevice, map[string]any{"id": "lamp"})
	assert.True(t, isErr)
	assert.Contains(t, text, "device not found")
}

func TestTools_Errors(t *testing.T) {
	s := newTestServer(t, irtest.NewRecorder())

	text, isErr := call(t, s.handleGetDevice, map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, `"id" is missing`)

	text, isErr = call(t, s.handleExecuteCommand, map[string]any{"id": "lamp", "command_id": "power"})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid command id")

	text, isErr = call(t, s.handlePutDevice, map[string]any{"id": "lamp", "record": map[string]any{"device_id": "lamp"}})
	assert.True(t, isErr)
	assert.Contains(t, text, "validation error")

	text, isErr = call(t, s.handlePutDevice, map[string]any{"id": "desk", "record": lampRecord})
	assert.True(t, isErr)
	assert.Contains(t, text, "device id mismatch")
}

func TestTools_HealthAndProfiles(t *testing.T) {
	rec := irtest.NewRecorder()
	rec.Disconnected = true
	s := newTestServer(t, rec)

	text, _ := call(t, s.handleGetHealth, nil)
	var health GetHealthOutput
	require.NoError(t, json.Unmarshal([]byte(text), &health))
	assert.Equal(t, "unhealthy", health.Status)

	text, _ = call(t, s.handleListProfiles, nil)
	var profiles ListProfilesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &profiles))
	assert.Len(t, profiles.Profiles, 4)
	assert.Len(t, profiles.Kinds, 7)
	assert.Contains(t, string(profiles.RecordSchema), `"device_id"`)
}

func TestHandler_Initialize(t *testing.T) {
	s := newTestServer(t, irtest.NewRecorder())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	resp, err := http.Post(srv.URL+EndpointPath, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Result struct {
			ServerInfo   mcp.Implementation `json:"serverInfo"`
			Instructions string             `json:"instructions"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "irhome", out.Result.ServerInfo.Name)
	assert.Equal(t, "test", out.Result.ServerInfo.Version)
	assert.Contains(t, out.Result.Instructions, "execute_command")

	resp, err = http.Get(srv.URL + "/elsewhere")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
