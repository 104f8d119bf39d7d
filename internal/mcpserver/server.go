// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the VirtualDJ library tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
	"github.com/vdjbridge/vdjbridge/internal/library"
)

// Server wraps the MCP server with vdjbridge tools.
type Server struct {
	mcp *server.MCPServer
	svc *library.Service
}

// New creates a new MCP server with all vdjbridge tools registered.
func New(svc *library.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"vdjbridge",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("import_library",
		mcp.WithDescription("Import the VirtualDJ track library as normalized track records "+
			"(artist, title, BPM, key, duration)."),
		mcp.WithString("path", mcp.Description("Optional explicit path to database.xml (bypasses the install-location search)")),
	), s.importLibrary)

	s.mcp.AddTool(mcp.NewTool("lookup_track",
		mcp.WithDescription("Look up BPM, musical key, and volume for a single track by its file path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute file path of the track as stored in the library")),
	), s.lookupTrack)

	s.mcp.AddTool(mcp.NewTool("latest_history",
		mcp.WithDescription("Report the most recently played track from the VirtualDJ history logs."),
		mcp.WithString("dir", mcp.Description("Optional explicit history-log directory")),
	), s.latestHistory)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) importLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := ""
	if p, err := req.RequireString("path"); err == nil {
		path = p
	}

	tracks, err := s.svc.ImportLibrary(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tracks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupTrack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	md, err := s.svc.LookupTrack(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(md, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) latestHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := ""
	if d, err := req.RequireString("dir"); err == nil {
		dir = d
	}

	entry, err := s.svc.LatestHistory(ctx, dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if entry == nil {
		return mcp.NewToolResultText("no history entry"), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
