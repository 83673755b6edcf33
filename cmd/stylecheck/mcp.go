package main

import (
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/mcp"
)

// mcpCommand serves lint and rules tools over stdio. Stdout belongs to the
// protocol, so all diagnostics go to the log file or stderr.
func mcpCommand(c *cli.Context) error {
	debug.SetMCPMode(true)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	runner, reg, err := newRunner(cfg, nil)
	if err != nil {
		return err
	}

	server := mcp.NewServer(cfg, runner, reg, mcp.NewDiagnosticLogger(c.String("log-file")))
	defer server.Close()

	ctx, stop := signalContext(c.Context)
	defer stop()
	return server.Start(ctx)
}
