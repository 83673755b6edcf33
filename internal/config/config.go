// Package config loads the lint configuration from .stylecheck.kdl or
// .stylecheck.toml and turns its rule section into registry settings.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/standardbeagle/stylecheck/internal/diag"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/rules"
)

const (
	KDLFileName  = ".stylecheck.kdl"
	TOMLFileName = ".stylecheck.toml"

	// SeverityOff disables a rule in the rules section.
	SeverityOff = "off"

	DefaultMaxFileSize = 2 * 1024 * 1024
	DefaultDebounceMs  = 200
)

type Config struct {
	Version     int
	Project     Project
	Rules       map[string]string // rule ID -> "off" | "warning" | "error"
	Include     []string
	Exclude     []string
	Performance Performance
	Parser      Parser
	Output      Output
}

type Project struct {
	Root             string
	Name             string
	RespectGitignore bool // add .gitignore entries to the exclusions
}

type Performance struct {
	Workers     int   // 0 = auto-detect (NumCPU-1)
	MaxFileSize int64 // files above this many bytes are skipped
	DebounceMs  int   // watch mode debounce for file change events
}

type Parser struct {
	SourceKitten     bool
	SourceKittenPath string
}

type Output struct {
	Format string // "text" | "json"
	Color  bool
	Strict bool // any violation fails the run, not just errors
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Version: 1,
		Project: Project{
			Root:             cwd,
			Name:             filepath.Base(cwd),
			RespectGitignore: true,
		},
		Rules:   map[string]string{},
		Include: DefaultIncludes(),
		Exclude: DefaultExclusions(),
		Performance: Performance{
			Workers:     0,
			MaxFileSize: DefaultMaxFileSize,
			DebounceMs:  DefaultDebounceMs,
		},
		Parser: Parser{
			SourceKitten:     false,
			SourceKittenPath: "sourcekitten",
		},
		Output: Output{
			Format: "text",
			Color:  true,
		},
	}
}

// DefaultIncludes matches every extension some parser understands.
func DefaultIncludes() []string {
	return []string{"**/*.swift"}
}

// DefaultExclusions skips dependency checkouts and build output.
func DefaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/.build/**",
		"**/.swiftpm/**",
		"**/Pods/**",
		"**/Carthage/**",
		"**/DerivedData/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/dist/**",
		"**/build/**",
		"**/target/**",
		"**/*.generated.swift",
	}
}

func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot loads the configuration for rootDir. An explicit path wins;
// otherwise .stylecheck.kdl and then .stylecheck.toml are looked up in
// rootDir. A config in the home directory acts as the base that the project
// config is merged onto.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	if path != "" {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		return finish(cfg, filepath.Dir(path))
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := loadDir(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	projectConfig, err := loadDir(searchDir)
	if err != nil {
		return nil, err
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return finish(mergeConfigs(baseConfig, projectConfig), searchDir)
	case projectConfig != nil:
		return finish(projectConfig, searchDir)
	case baseConfig != nil:
		baseConfig.Project.Root = ""
		return finish(baseConfig, searchDir)
	}
	cfg := Default()
	cfg.Project.Root = ""
	cfg.Project.Name = ""
	return finish(cfg, searchDir)
}

// LoadFile reads one config file, choosing the format by extension.
func LoadFile(path string) (*Config, error) {
	// #nosec G304 -- config path supplied by the user
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, scerrors.NewFileError("read", path, err)
	}
	if filepath.Ext(path) == ".toml" {
		return parseTOML(content)
	}
	return parseKDL(string(content))
}

func loadDir(dir string) (*Config, error) {
	cfg, err := LoadKDL(dir)
	if err != nil || cfg != nil {
		return cfg, err
	}
	return LoadTOML(dir)
}

// finish resolves the project root against dir and folds in excludes
// derived from the project layout.
func finish(cfg *Config, dir string) (*Config, error) {
	root := cfg.Project.Root
	switch {
	case root == "":
		root = dir
	case !filepath.IsAbs(root):
		root = filepath.Join(dir, root)
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	cfg.Project.Root = filepath.Clean(root)
	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(cfg.Project.Root)
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	if cfg.Project.RespectGitignore {
		gp := NewGitignoreParser()
		if err := gp.LoadGitignore(cfg.Project.Root); err != nil {
			return nil, scerrors.NewFileError("read", filepath.Join(cfg.Project.Root, ".gitignore"), err)
		}
		cfg.Exclude = DeduplicatePatterns(append(cfg.Exclude, gp.GetExclusionPatterns()...))
	}
	return cfg, nil
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions and rule settings
// the project does not mention are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		merged.Exclude = DeduplicatePatterns(append(append([]string{}, base.Exclude...), project.Exclude...))
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	merged.Rules = make(map[string]string, len(base.Rules)+len(project.Rules))
	for id, sev := range base.Rules {
		merged.Rules[id] = sev
	}
	for id, sev := range project.Rules {
		merged.Rules[id] = sev
	}
	return &merged
}

// RuleSettings converts the rules section into registry settings. Call
// Validate first; unparseable severities are reported here too.
func (c *Config) RuleSettings() (map[string]rules.Setting, error) {
	out := make(map[string]rules.Setting, len(c.Rules))
	for _, id := range c.RuleIDs() {
		sev := c.Rules[id]
		if sev == SeverityOff {
			out[id] = rules.Setting{Enabled: false}
			continue
		}
		s, err := diag.ParseSeverity(sev)
		if err != nil {
			return nil, scerrors.NewConfigError("rules."+id, sev, err)
		}
		out[id] = rules.Setting{Enabled: true, Severity: s}
	}
	return out, nil
}

// RuleIDs lists the configured rule IDs in sorted order.
func (c *Config) RuleIDs() []string {
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Registry builds the rule registry this configuration describes.
func (c *Config) Registry() (*rules.Registry, error) {
	settings, err := c.RuleSettings()
	if err != nil {
		return nil, err
	}
	return rules.Build(settings)
}

// WorkerCount resolves the auto-detect sentinel.
func (c *Config) WorkerCount() int {
	if c.Performance.Workers > 0 {
		return c.Performance.Workers
	}
	return max(1, runtime.NumCPU()-1)
}

// EnrichExclusionsWithBuildArtifacts detects build output directories from
// project manifests and adds them to the exclusion list.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}

	detector := NewBuildArtifactDetector(c.Project.Root)
	if detected := detector.DetectOutputDirectories(); len(detected) > 0 {
		c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
	}
}
