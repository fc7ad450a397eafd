// Package mcp exposes the device controller as Model Context Protocol tools.
package mcp

import (
	"context"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/device/schema"
)

// EndpointPath is where Handler serves the streamable HTTP transport.
const EndpointPath = "/mcp"

const instructions = `Devices are infrared appliances made of named controls.
Call get_device to see each control's state and operations, then
execute_command with command_id "<control>.<operation>", e.g. "volume.up".`

// Server exposes IR device control as MCP tools
type Server struct {
	mcpServer  *server.MCPServer
	controller device.Controller
	validator  *schema.Validator
}

func NewServer(controller device.Controller, validator *schema.Validator, version string) *Server {
	s := &Server{
		controller: controller,
		validator:  validator,
	}

	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(func(_ context.Context, _ any, req *mcp.CallToolRequest) {
		log.Debug().Str("tool", req.Params.Name).Msg("tool call")
	})
	hooks.AddOnError(func(_ context.Context, _ any, method mcp.MCPMethod, _ any, err error) {
		log.Warn().Err(err).Str("method", string(method)).Msg("MCP request failed")
	})

	s.mcpServer = server.NewMCPServer(
		"irhome",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
		server.WithHooks(hooks),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// ServeStdio serves JSON-RPC on in/out until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

// Handler returns the stateless streamable HTTP transport, mounted at
// EndpointPath.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, server.NewStreamableHTTPServer(s.mcpServer,
		server.WithEndpointPath(EndpointPath),
		server.WithStateLess(true),
	))
	return mux
}
