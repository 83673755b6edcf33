package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors the KDL layout:
//
//	[rules]
//	mark = "warning"
//	[performance]
//	workers = 4
type tomlConfig struct {
	Version int `toml:"version"`
	Project struct {
		Root             string `toml:"root"`
		Name             string `toml:"name"`
		RespectGitignore *bool  `toml:"respect_gitignore"`
	} `toml:"project"`
	Rules       map[string]string `toml:"rules"`
	Include     []string          `toml:"include"`
	Exclude     []string          `toml:"exclude"`
	Performance struct {
		Workers     *int   `toml:"workers"`
		MaxFileSize string `toml:"max_file_size"`
		DebounceMs  *int   `toml:"debounce_ms"`
	} `toml:"performance"`
	Parser struct {
		SourceKitten     *bool  `toml:"sourcekitten"`
		SourceKittenPath string `toml:"sourcekitten_path"`
	} `toml:"parser"`
	Output struct {
		Format string `toml:"format"`
		Color  *bool  `toml:"color"`
		Strict *bool  `toml:"strict"`
	} `toml:"output"`
}

// LoadTOML loads .stylecheck.toml from projectRoot. A missing file yields
// (nil, nil).
func LoadTOML(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, TOMLFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	// #nosec G304 -- fixed file name under the project root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", TOMLFileName, err)
	}
	cfg, err := parseTOML(data)
	if err != nil {
		return nil, err
	}
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}
	return cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	var raw tomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := Default()
	cfg.Project.Root = raw.Project.Root
	cfg.Project.Name = raw.Project.Name
	if raw.Version != 0 {
		cfg.Version = raw.Version
	}
	if raw.Project.RespectGitignore != nil {
		cfg.Project.RespectGitignore = *raw.Project.RespectGitignore
	}
	for id, sev := range raw.Rules {
		cfg.Rules[id] = strings.ToLower(sev)
	}
	if len(raw.Include) > 0 {
		cfg.Include = raw.Include
	}
	cfg.Exclude = append(cfg.Exclude, raw.Exclude...)

	if raw.Performance.Workers != nil {
		cfg.Performance.Workers = *raw.Performance.Workers
	}
	if raw.Performance.MaxFileSize != "" {
		sz, err := parseSize(raw.Performance.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("performance.max_file_size: %w", err)
		}
		cfg.Performance.MaxFileSize = sz
	}
	if raw.Performance.DebounceMs != nil {
		cfg.Performance.DebounceMs = *raw.Performance.DebounceMs
	}
	if raw.Parser.SourceKitten != nil {
		cfg.Parser.SourceKitten = *raw.Parser.SourceKitten
	}
	if raw.Parser.SourceKittenPath != "" {
		cfg.Parser.SourceKittenPath = raw.Parser.SourceKittenPath
	}
	if raw.Output.Format != "" {
		cfg.Output.Format = raw.Output.Format
	}
	if raw.Output.Color != nil {
		cfg.Output.Color = *raw.Output.Color
	}
	if raw.Output.Strict != nil {
		cfg.Output.Strict = *raw.Output.Strict
	}
	return cfg, nil
}
