package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/diag"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/rules"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMergeConfigs_ExclusionsMerge(t *testing.T) {
	base := &Config{Exclude: []string{"**/Pods/**", "**/vendor/**"}}
	project := &Config{Exclude: []string{"**/vendor/**", "**/Generated/**"}}

	merged := mergeConfigs(base, project)

	assert.Equal(t, []string{"**/Pods/**", "**/vendor/**", "**/Generated/**"}, merged.Exclude)
}

func TestMergeConfigs_IncludesAndRules(t *testing.T) {
	base := &Config{
		Include: []string{"**/*.swift"},
		Rules:   map[string]string{"mark": "error", "opening_brace": "warning"},
	}
	project := &Config{
		Rules: map[string]string{"opening_brace": "off"},
	}

	merged := mergeConfigs(base, project)

	assert.Equal(t, []string{"**/*.swift"}, merged.Include, "base includes used when project has none")
	assert.Equal(t, map[string]string{"mark": "error", "opening_brace": "off"}, merged.Rules)

	project.Include = []string{"Sources/**/*.swift"}
	merged = mergeConfigs(base, project)
	assert.Equal(t, []string{"Sources/**/*.swift"}, merged.Include)
}

func TestLoadWithRoot_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	cfg, err := LoadWithRoot("", root)
	require.NoError(t, err)

	abs, _ := filepath.Abs(root)
	assert.Equal(t, abs, cfg.Project.Root)
	assert.Equal(t, filepath.Base(abs), cfg.Project.Name)
	assert.Equal(t, DefaultIncludes(), cfg.Include)
	assert.Contains(t, cfg.Exclude, "**/Pods/**")
	assert.Empty(t, cfg.Rules)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadWithRoot_PrefersKDL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeFile(t, root, KDLFileName, `rules {
    mark "error"
}`)
	writeFile(t, root, TOMLFileName, `[rules]
mark = "off"
`)

	cfg, err := LoadWithRoot("", root)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Rules["mark"])
}

func TestLoadWithRoot_TOMLFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeFile(t, root, TOMLFileName, `[rules]
mark = "Warning"
return_position = "off"

[performance]
workers = 3
max_file_size = "1MB"

[output]
format = "json"
color = false
`)

	cfg, err := LoadWithRoot("", root)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mark": "warning", "return_position": "off"}, cfg.Rules)
	assert.Equal(t, 3, cfg.Performance.Workers)
	assert.Equal(t, int64(1024*1024), cfg.Performance.MaxFileSize)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoadWithRoot_HomeBaseMerged(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, KDLFileName, `rules {
    mark "error"
}
exclude "**/Legacy/**"`)
	root := t.TempDir()
	writeFile(t, root, KDLFileName, `rules {
    opening_brace "off"
}`)

	cfg, err := LoadWithRoot("", root)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Rules["mark"])
	assert.Equal(t, "off", cfg.Rules["opening_brace"])
	assert.Contains(t, cfg.Exclude, "**/Legacy/**")
}

func TestLoadWithRoot_ExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", "[rules]\nmark = \"error\"\n")

	cfg, err := LoadWithRoot(path, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Rules["mark"])

	_, err = LoadWithRoot(filepath.Join(dir, "missing.kdl"), "")
	var fe *scerrors.FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, scerrors.ErrorTypeFileNotFound, fe.Type)
}

func TestLoadWithRoot_GitignoreExclusions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "# deps\nFixtures/\n*.gen.swift\n!keep.gen.swift\n")

	cfg, err := LoadWithRoot("", root)
	require.NoError(t, err)
	assert.Contains(t, cfg.Exclude, "**/Fixtures/**")
	assert.Contains(t, cfg.Exclude, "**/*.gen.swift")

	writeFile(t, root, KDLFileName, "project {\n    respect_gitignore false\n}")
	cfg, err = LoadWithRoot("", root)
	require.NoError(t, err)
	assert.NotContains(t, cfg.Exclude, "**/Fixtures/**")
}

func TestRuleSettings(t *testing.T) {
	cfg := &Config{Rules: map[string]string{
		"mark":               "off",
		"statement_position": "error",
		"opening_brace":      "warning",
	}}

	settings, err := cfg.RuleSettings()
	require.NoError(t, err)
	assert.Equal(t, map[string]rules.Setting{
		"mark":               {Enabled: false},
		"statement_position": {Enabled: true, Severity: diag.SevError},
		"opening_brace":      {Enabled: true, Severity: diag.SevWarning},
	}, settings)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	_, ok := reg.Get("mark")
	assert.False(t, ok)
	rule, ok := reg.Get("statement_position")
	require.True(t, ok)
	assert.Equal(t, diag.SevError, rule.Severity())

	cfg.Rules["mark"] = "loud"
	_, err = cfg.RuleSettings()
	var ce *scerrors.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "rules.mark", ce.Field)
}

func TestWorkerCount(t *testing.T) {
	cfg := &Config{Performance: Performance{Workers: 5}}
	assert.Equal(t, 5, cfg.WorkerCount())
	cfg.Performance.Workers = 0
	assert.GreaterOrEqual(t, cfg.WorkerCount(), 1)
}
