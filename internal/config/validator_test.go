package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Project.Root = "/test/root"
	return cfg
}

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Performance.Workers = 0
	cfg.Performance.MaxFileSize = 0
	cfg.Output.Format = ""
	cfg.Include = nil
	cfg.Rules = nil

	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))

	assert.GreaterOrEqual(t, cfg.Performance.Workers, 1)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Performance.MaxFileSize)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, DefaultIncludes(), cfg.Include)
	assert.NotNil(t, cfg.Rules)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project"},
		{"bad severity", func(c *Config) { c.Rules["mark"] = "fatal" }, "rules.mark"},
		{"unknown rule", func(c *Config) { c.Rules["opening_brase"] = "error" }, "rules"},
		{"bad include", func(c *Config) { c.Include = []string{"src/[a-"} }, "include"},
		{"bad exclude", func(c *Config) { c.Exclude = []string{"{a,b"} }, "exclude"},
		{"negative workers", func(c *Config) { c.Performance.Workers = -1 }, "performance"},
		{"too many workers", func(c *Config) { c.Performance.Workers = 5000 }, "performance"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			var ce *scerrors.ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestValidate_UnknownRuleSuggestion(t *testing.T) {
	cfg := validConfig()
	cfg.Rules["opening_brase"] = "error"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "opening_brace"`)
}

func TestValidate_OffIsAccepted(t *testing.T) {
	cfg := validConfig()
	cfg.Rules["mark"] = SeverityOff
	cfg.Rules["return_position"] = "error"
	assert.NoError(t, ValidateConfig(cfg))
}
