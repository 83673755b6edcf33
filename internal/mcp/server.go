// Package mcp exposes the linter to MCP clients over stdio: a "lint" tool
// for files or in-memory buffers and a "rules" tool describing the active
// rule set.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/stylecheck/internal/config"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/rules"
	"github.com/standardbeagle/stylecheck/internal/version"
)

const serverName = "stylecheck-mcp-server"

var errOutsideRoot = errors.New("path is outside the project root")

type Server struct {
	cfg              *config.Config
	runner           *lint.Runner
	registry         *rules.Registry
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger
}

// NewServer wires the tools to a runner built from cfg. reg must be the
// registry the runner's linter uses.
func NewServer(cfg *config.Config, runner *lint.Runner, reg *rules.Registry, logger *DiagnosticLogger) *Server {
	if logger == nil {
		logger = NoOpLogger
	}
	s := &Server{
		cfg:              cfg,
		runner:           runner,
		registry:         reg,
		diagnosticLogger: logger,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	logger.Printf("MCP server initialized for %s (%d rules, build %s)", cfg.Project.Root, reg.Len(), version.BuildID())
	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "lint",
		Description: "Check Swift (and other supported) sources for style violations. Lint files below the project root with 'paths', or an unsaved buffer with 'source'.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"paths": {
					Type:        "array",
					Description: "Files or directories relative to the project root; empty lints the whole project",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"source": {
					Type:        "string",
					Description: "Source text to lint instead of reading files",
				},
				"path": {
					Type:        "string",
					Description: "File name used for 'source'; its extension selects the parser (default input.swift)",
				},
			},
		},
	}, s.handleLint)

	s.server.AddTool(&mcp.Tool{
		Name:        "rules",
		Description: "List the enabled style rules with their severity, or describe one rule including its triggering and non-triggering examples.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {
					Type:        "string",
					Description: "Rule identifier, e.g. 'opening_brace'",
				},
				"examples": {
					Type:        "boolean",
					Description: "Include example snippets",
				},
			},
		},
	}, s.handleRules)
}

// recoverFromPanic turns a handler panic or error into an error result.
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.diagnosticLogger.Errorf("PANIC RECOVERED in %s: %v\n%s", operation, r, debug.Stack())
			result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
		}
	}()

	result, err = handler()
	if err != nil {
		s.diagnosticLogger.Printf("Error in %s: %v", operation, err)
		return createErrorResponse(operation, err)
	}
	return result, nil
}

// Start serves over stdio until ctx is done or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// Run serves over an arbitrary transport.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.diagnosticLogger.Printf("Starting MCP server")
	err := s.server.Run(ctx, t)
	s.diagnosticLogger.Printf("MCP server stopped")
	return err
}

// Close releases resources held by the Server
func (s *Server) Close() error {
	return s.diagnosticLogger.Close()
}
