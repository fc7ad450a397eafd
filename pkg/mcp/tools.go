package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check whether the IR bridge is reachable"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List the ids of all stored IR devices"),
		),
		s.handleListDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get a device with the current state of each control and the command ids it accepts"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleGetDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("execute_command",
			mcp.WithDescription("Send an IR command to a device and update its tracked state. Command ids have the form control.operation, e.g. power.on or volume.up; get_device lists them."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
			mcp.WithString("command_id",
				mcp.Required(),
				mcp.Description("Command id, e.g. volume.up"),
			),
		),
		s.handleExecuteCommand,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("put_device",
			mcp.WithDescription("Create or replace a device from its stored record"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id, must match record.device_id"),
			),
			mcp.WithObject("record",
				mcp.Required(),
				mcp.Description("Device record: {device_id, profile, controls: {name: {kind, state, possible_states, commands}}}"),
			),
		),
		s.handlePutDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_device",
			mcp.WithDescription("Delete a device and its learned commands"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleDeleteDevice,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("learn_control",
			mcp.WithDescription("Add a control to a device by capturing its remote buttons with the IR receiver. The user must press each requested button while this runs."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Control name, e.g. volume"),
			),
			mcp.WithString("kind",
				mcp.Required(),
				mcp.Description("Control kind"),
				mcp.Enum("stateless", "setter", "toggle", "binary", "level", "cyclic", "bidirectional"),
			),
			mcp.WithNumber("min",
				mcp.Description("Lowest value of a level control (default 0)"),
			),
			mcp.WithNumber("max",
				mcp.Description("Highest value of a level control"),
			),
			mcp.WithArray("labels",
				mcp.Description("Ordered items of a cyclic or bidirectional control"),
				mcp.WithStringItems(),
			),
			mcp.WithNumber("timeout_seconds",
				mcp.Description("How long to wait for the buttons in seconds (default 120, max 600)"),
				mcp.Max(600),
			),
		),
		s.handleLearnControl,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_profiles",
			mcp.WithDescription("List device profiles and the control kinds they are built from"),
		),
		s.handleListProfiles,
	)
}
