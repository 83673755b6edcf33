package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/stylecheck/internal/diag"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/rules"
)

// Validator validates configuration and sets smart defaults
type Validator struct {
	knownRules []string
}

// NewValidator creates a validator that checks rule IDs against the catalog.
func NewValidator() *Validator {
	return &Validator{knownRules: rules.KnownIDs()}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return scerrors.NewConfigError("project", "", err)
	}

	if err := v.validateRules(cfg.Rules); err != nil {
		return err
	}

	if err := v.validatePatterns("include", cfg.Include); err != nil {
		return err
	}
	if err := v.validatePatterns("exclude", cfg.Exclude); err != nil {
		return err
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return scerrors.NewConfigError("performance", "", err)
	}

	if err := v.validateOutputConfig(&cfg.Output); err != nil {
		return scerrors.NewConfigError("output.format", cfg.Output.Format, err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

// validateRules rejects unknown rule IDs (with a suggestion) and severities
// other than off/warning/error.
func (v *Validator) validateRules(settings map[string]string) error {
	cfg := Config{Rules: settings}
	for _, id := range cfg.RuleIDs() {
		if !contains(v.knownRules, id) {
			err := fmt.Errorf("unknown rule %q", id)
			if s := rules.Suggest(id, v.knownRules); s != "" {
				err = fmt.Errorf("unknown rule %q, did you mean %q?", id, s)
			}
			return scerrors.NewConfigError("rules", id, err)
		}
		sev := settings[id]
		if sev == SeverityOff {
			continue
		}
		if _, err := diag.ParseSeverity(sev); err != nil {
			return scerrors.NewConfigError("rules."+id, sev, err)
		}
	}
	return nil
}

func (v *Validator) validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return scerrors.NewConfigError(field, p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// Workers: 0 means auto-detect (will be set by smart defaults)
	if perf.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", perf.Workers)
	}
	if perf.Workers > 1024 {
		return fmt.Errorf("workers should not exceed 1024, got %d", perf.Workers)
	}
	if perf.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size cannot be negative, got %d", perf.MaxFileSize)
	}
	if perf.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms cannot be negative, got %d", perf.DebounceMs)
	}
	return nil
}

func (v *Validator) validateOutputConfig(out *Output) error {
	switch out.Format {
	case "", "text", "json":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text or json)", out.Format)
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// cores-1 leaves headroom for the system, minimum of 1
	if cfg.Performance.Workers == 0 {
		cfg.Performance.Workers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Performance.MaxFileSize == 0 {
		cfg.Performance.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Performance.DebounceMs == 0 {
		cfg.Performance.DebounceMs = DefaultDebounceMs
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultIncludes()
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]string{}
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}

func contains(ids []string, id string) bool {
	for _, k := range ids {
		if k == id {
			return true
		}
	}
	return false
}
