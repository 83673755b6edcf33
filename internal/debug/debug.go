// Package debug is the process-wide trace log for parser, lint, watch and
// MCP activity. Tracing is off unless a trace file is opened, the binary is
// built with EnableDebug=true, or STYLECHECK_DEBUG/DEBUG is set. While
// serving MCP over stdio it only ever writes to a trace file.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/stylecheck/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	mu      sync.Mutex
	mcpMode bool
	output  io.Writer // nil means stderr
	file    *os.File
)

// SetMCPMode keeps traces off stdio while the MCP server owns it.
func SetMCPMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	mcpMode = enabled
}

// SetOutput redirects traces; nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// OpenTraceFile appends traces to path and turns tracing on. Close releases
// it.
func OpenTraceFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	// #nosec G304 -- trace path supplied by the user
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
	}
	file = f
	return nil
}

// Close closes the trace file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Enabled reports whether Log writes anything.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	_, ok := writerLocked()
	return ok
}

func writerLocked() (io.Writer, bool) {
	if file != nil {
		return file, true
	}
	if mcpMode || !requested() {
		return nil, false
	}
	if output != nil {
		return output, true
	}
	return os.Stderr, true
}

func requested() bool {
	if EnableDebug == "true" {
		return true
	}
	for _, name := range []string{"STYLECHECK_DEBUG", "DEBUG"} {
		if v := os.Getenv(name); v == "1" || v == "true" {
			return true
		}
	}
	return false
}

// Log writes one "time [component] message" line.
func Log(component, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	w, ok := writerLocked()
	if !ok {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(w, "%s [%s] %s\n", time.Now().Format("15:04:05.000"), component, msg)
}

// LogParse logs parser backend activity
func LogParse(format string, args ...interface{}) {
	Log("PARSE", format, args...)
}

// LogLint logs rule execution and file scheduling
func LogLint(format string, args ...interface{}) {
	Log("LINT", format, args...)
}

// LogWatch logs file watcher events
func LogWatch(format string, args ...interface{}) {
	Log("WATCH", format, args...)
}

// LogMCP logs tool calls served over MCP
func LogMCP(format string, args ...interface{}) {
	Log("MCP", format, args...)
}
