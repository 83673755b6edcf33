// Package diag defines violations and their ordering.
package diag

import (
	"fmt"
	"strings"
)

// Severity is ordered: Warning < Error.
type Severity uint8

const (
	SevWarning Severity = iota + 1
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// MarshalText lets severities appear by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by String.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity maps "warning"/"error" (case-insensitive) to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "warning", "warn":
		return SevWarning, nil
	case "error", "err":
		return SevError, nil
	}
	return 0, fmt.Errorf("unknown severity %q (want warning or error)", name)
}
