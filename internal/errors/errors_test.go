package errors

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

func TestRuleError(t *testing.T) {
	underlying := errors.New("missing closing )")
	err := NewRuleError("mark", underlying).WithPattern("(//MARK:")

	if err.Type != ErrorTypeRule {
		t.Errorf("Expected Type to be ErrorTypeRule, got %v", err.Type)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := `rule mark: pattern "(//MARK:": missing closing )`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestRuleErrorSuggestion(t *testing.T) {
	err := NewRuleError("opening_brase", errors.New("unknown rule")).WithSuggestion("opening_brace")

	expectedMsg := `rule opening_brase: unknown rule (did you mean "opening_brace"?)`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	var ruleErr *RuleError
	if !errors.As(error(err), &ruleErr) || ruleErr.RuleID != "opening_brase" {
		t.Errorf("Expected errors.As to find the rule error")
	}
}

func TestParseError(t *testing.T) {
	underlying := errors.New("unbalanced braces")
	err := NewParseError(456, "/path/to/file.swift", "swift", underlying)

	if err.Type != ErrorTypeParse {
		t.Errorf("Expected Type to be ErrorTypeParse, got %v", err.Type)
	}

	if err.FileID != 456 {
		t.Errorf("Expected FileID to be 456, got %d", err.FileID)
	}

	if !err.IsRecoverable() {
		t.Errorf("Expected parse errors to be recoverable")
	}

	expectedMsg := "swift parse error in /path/to/file.swift: unbalanced braces"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	err.WithPosition(10, 5)
	expectedMsg = "swift parse error at /path/to/file.swift:10:5: unbalanced braces"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestLintError(t *testing.T) {
	err := NewLintError("a.swift", "", errors.New("context canceled"))
	if err.Error() != "lint a.swift failed: context canceled" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	err = NewLintError("a.swift", "mark", errors.New("boom"))
	if err.Error() != "lint a.swift failed in rule mark: boom" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestFileError(t *testing.T) {
	err := NewFileError("read", "/path/to/file", fs.ErrPermission)

	if err.Type != ErrorTypePermission {
		t.Errorf("Expected Type to be ErrorTypePermission, got %v", err.Type)
	}

	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "file read failed for /path/to/file: permission denied"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestFileErrorWithNotFound(t *testing.T) {
	err := NewFileError("stat", "/missing/file", &fs.PathError{Op: "stat", Path: "/missing/file", Err: fs.ErrNotExist})

	if err.Type != ErrorTypeFileNotFound {
		t.Errorf("Expected Type to be ErrorTypeFileNotFound, got %v", err.Type)
	}

	other := NewFileError("read", "/x", errors.New("disk on fire"))
	if other.Type != ErrorTypeFileRead {
		t.Errorf("Expected Type to be ErrorTypeFileRead, got %v", other.Type)
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("invalid value")
	err := NewConfigError("rules.mark", "loud", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := `config error for field rules.mark (value loud): invalid value`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")

	multiErr := NewMultiError([]error{err1, nil, err2, nil})
	if len(multiErr.Errors) != 2 {
		t.Errorf("Expected 2 errors after filtering nil, got %d", len(multiErr.Errors))
	}

	if !errors.Is(multiErr, err2) {
		t.Errorf("Expected errors.Is to see through the multi-error")
	}

	if NewMultiError(nil).ErrorOrNil() != nil {
		t.Errorf("Expected ErrorOrNil to be nil for no errors")
	}

	if NewMultiError([]error{err1}).Error() != "error 1" {
		t.Errorf("Expected single error message to pass through")
	}
}

func TestTimestamp(t *testing.T) {
	err := NewRuleError("mark", errors.New("test"))
	now := time.Now()
	if err.Timestamp.IsZero() || err.Timestamp.After(now) || now.Sub(err.Timestamp) > time.Second {
		t.Errorf("Timestamp seems incorrect: %v", err.Timestamp)
	}
}
