// Build artifact detection from project manifests.
// Reads Package.swift, Podfile, Cartfile, Cargo.toml and tsconfig.json to
// find directories holding generated or vendored sources.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds build output and dependency checkout
// directories that should never be linted.
type BuildArtifactDetector struct {
	projectRoot string
}

func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories returns glob patterns to exclude, e.g.
// "**/.build/**".
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string
	patterns = append(patterns, bad.detectSwiftOutputs()...)
	patterns = append(patterns, bad.detectRustOutputs()...)
	patterns = append(patterns, bad.detectTypeScriptOutputs()...)
	return DeduplicatePatterns(patterns)
}

func (bad *BuildArtifactDetector) exists(name string) bool {
	_, err := os.Stat(filepath.Join(bad.projectRoot, name))
	return err == nil
}

// detectSwiftOutputs covers SwiftPM, CocoaPods, Carthage and Xcode.
func (bad *BuildArtifactDetector) detectSwiftOutputs() []string {
	var patterns []string
	if bad.exists("Package.swift") {
		patterns = append(patterns, "**/.build/**", "**/.swiftpm/**")
	}
	if bad.exists("Podfile") {
		patterns = append(patterns, "**/Pods/**")
	}
	if bad.exists("Cartfile") {
		patterns = append(patterns, "**/Carthage/**")
	}
	if matches, _ := filepath.Glob(filepath.Join(bad.projectRoot, "*.xcodeproj")); len(matches) > 0 {
		patterns = append(patterns, "**/DerivedData/**", "**/*.xcodeproj/**")
	}
	return patterns
}

// detectRustOutputs honours a custom target-dir in Cargo.toml.
func (bad *BuildArtifactDetector) detectRustOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var cargo map[string]interface{}
	if toml.Unmarshal(data, &cargo) != nil {
		return nil
	}
	patterns = append(patterns, "**/target/**")
	if profile, ok := cargo["profile"].(map[string]interface{}); ok {
		if release, ok := profile["release"].(map[string]interface{}); ok {
			if targetDir, ok := release["target-dir"].(string); ok {
				patterns = append(patterns, "**/"+strings.Trim(targetDir, "/")+"/**")
			}
		}
	}
	return patterns
}

// detectTypeScriptOutputs reads compilerOptions.outDir from tsconfig.json.
func (bad *BuildArtifactDetector) detectTypeScriptOutputs() []string {
	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "tsconfig.json"))
	if err != nil {
		return nil
	}
	var tsconfig struct {
		CompilerOptions struct {
			OutDir string `json:"outDir"`
		} `json:"compilerOptions"`
	}
	if json.Unmarshal(data, &tsconfig) != nil || tsconfig.CompilerOptions.OutDir == "" {
		return nil
	}
	dir := strings.Trim(strings.TrimPrefix(tsconfig.CompilerOptions.OutDir, "./"), "/")
	return []string{"**/" + dir + "/**"}
}

// DeduplicatePatterns removes duplicate exclusion patterns, keeping the
// first occurrence.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
