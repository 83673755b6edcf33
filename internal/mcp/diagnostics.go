package mcp

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DiagnosticLogger handles all diagnostic output for the MCP server.
// Stdout carries the protocol, so nothing here may ever write to it: output
// goes to stderr or, when a log file is configured, to that file.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
}

// NewDiagnosticLogger logs to logPath, or to stderr when logPath is empty.
// A log file that cannot be opened falls back to stderr rather than
// breaking server startup.
func NewDiagnosticLogger(logPath string) *DiagnosticLogger {
	dl := &DiagnosticLogger{}

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
			// #nosec G304 -- log path supplied by the user
			file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				dl.file = file
				dl.filePath = logPath
				dl.logger = log.New(file, "[MCP] ", log.LstdFlags|log.Lshortfile)
				return dl
			}
		}
	}

	dl.logger = log.New(os.Stderr, "[MCP] ", log.LstdFlags)
	return dl
}

// NewWriterLogger logs to w; tests pass a buffer.
func NewWriterLogger(w io.Writer) *DiagnosticLogger {
	return &DiagnosticLogger{logger: log.New(w, "[MCP] ", 0)}
}

// Printf logs a diagnostic message.
func (dl *DiagnosticLogger) Printf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf(format, v...)
}

// Errorf logs an error.
func (dl *DiagnosticLogger) Errorf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf("ERROR: "+format, v...)
}

// Close closes the log file if it's open.
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		return dl.file.Close()
	}
	return nil
}

// GetLogPath returns the path to the diagnostic log file, if any
func (dl *DiagnosticLogger) GetLogPath() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}

// NoOpLogger is used to suppress all logging
var NoOpLogger = &DiagnosticLogger{
	logger: log.New(io.Discard, "", 0),
}
