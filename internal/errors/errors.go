package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/standardbeagle/stylecheck/internal/types"
)

// Error types for the style checker
type ErrorType string

const (
	// Construction errors: fatal for the whole run
	ErrorTypeRule   ErrorType = "rule"
	ErrorTypeConfig ErrorType = "config"

	// Per-file errors: recorded and the run continues
	ErrorTypeParse ErrorType = "parse"
	ErrorTypeLint  ErrorType = "lint"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeFileRead     ErrorType = "file_read"
)

// RuleError is raised while constructing a rule: a pattern that does not
// compile, an unknown identifier, a duplicate registration.
type RuleError struct {
	Type       ErrorType
	RuleID     string
	Pattern    string
	Suggestion string
	Underlying error
	Timestamp  time.Time
}

// NewRuleError creates a new rule construction error
func NewRuleError(ruleID string, err error) *RuleError {
	return &RuleError{
		Type:       ErrorTypeRule,
		RuleID:     ruleID,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPattern records the offending pattern
func (e *RuleError) WithPattern(pattern string) *RuleError {
	e.Pattern = pattern
	return e
}

// WithSuggestion records a likely intended rule identifier
func (e *RuleError) WithSuggestion(id string) *RuleError {
	e.Suggestion = id
	return e
}

// Error implements the error interface
func (e *RuleError) Error() string {
	msg := fmt.Sprintf("rule %s: %v", e.RuleID, e.Underlying)
	if e.Pattern != "" {
		msg = fmt.Sprintf("rule %s: pattern %q: %v", e.RuleID, e.Pattern, e.Underlying)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As
func (e *RuleError) Unwrap() error {
	return e.Underlying
}

// ParseError is a failure of an external parser on one file. It is
// recoverable: rules that need structure skip the file, the others run.
type ParseError struct {
	Type       ErrorType
	FileID     types.FileID
	FilePath   string
	Parser     string
	Line       int
	Column     int
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(fileID types.FileID, path, parser string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FileID:     fileID,
		FilePath:   path,
		Parser:     parser,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPosition records where in the file the parser gave up
func (e *ParseError) WithPosition(line, column int) *ParseError {
	e.Line = line
	e.Column = column
	return e
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error at %s:%d:%d: %v", e.Parser, e.FilePath, e.Line, e.Column, e.Underlying)
	}
	return fmt.Sprintf("%s parse error in %s: %v", e.Parser, e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable is always true: a parse failure only degrades one file.
func (e *ParseError) IsRecoverable() bool {
	return true
}

// LintError wraps a failure while linting one file (cancellation, a
// panicking rule).
type LintError struct {
	Type       ErrorType
	FilePath   string
	RuleID     string
	Underlying error
	Timestamp  time.Time
}

// NewLintError creates a new lint error
func NewLintError(path, ruleID string, err error) *LintError {
	return &LintError{
		Type:       ErrorTypeLint,
		FilePath:   path,
		RuleID:     ruleID,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *LintError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("lint %s failed in rule %s: %v", e.FilePath, e.RuleID, e.Underlying)
	}
	return fmt.Sprintf("lint %s failed: %v", e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *LintError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileRead
	switch {
	case errors.Is(err, fs.ErrPermission):
		errorType = ErrorTypePermission
	case errors.Is(err, fs.ErrNotExist):
		errorType = ErrorTypeFileNotFound
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
