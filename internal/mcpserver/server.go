// Package mcpserver serves the tool registry over the Model Context Protocol
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/hession/npmate/internal/apperr"
	"github.com/hession/npmate/internal/tools"
)

const serverName = "npmate"

// Server wraps an mcp-go server whose tools are the registry's tools
type Server struct {
	mcp      *server.MCPServer
	registry *tools.Registry
	logger   zerolog.Logger
}

// New registers every tool of registry on a fresh MCP server
func New(registry *tools.Registry, version string, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		mcp: server.NewMCPServer(
			serverName,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		registry: registry,
		logger:   logger,
	}

	for _, tool := range registry.List() {
		schema, err := tools.RawSchema(tool)
		if err != nil {
			return nil, fmt.Errorf("failed to build schema for %s: %w", tool.Name(), err)
		}
		mcpTool := mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schema)
		mcpTool.Annotations.ReadOnlyHint = boolPtr(tool.ReadOnly())
		mcpTool.Annotations.DestructiveHint = boolPtr(!tool.ReadOnly())
		s.mcp.AddTool(mcpTool, s.handler(tool.Name()))
	}

	return s, nil
}

// MCP returns the underlying server
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// handler runs one registry tool. Tool failures become error results, not
// protocol errors, so the assistant can read the message.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		out, err := s.registry.Execute(ctx, name, request.GetArguments())
		if err != nil {
			kind, _ := apperr.KindOf(err)
			s.logger.Warn().
				Str("tool", name).
				Str("kind", kind.String()).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("tool call failed")
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}

		s.logger.Info().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Msg("tool call")
		return mcp.NewToolResultText(out), nil
	}
}

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
// Protocol errors are logged through errLog, never to out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer, errLog io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(errLog, "mcp: ", log.LstdFlags))

	s.logger.Info().Int("tools", len(s.registry.List())).Msg("MCP server listening on stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server stopped: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
