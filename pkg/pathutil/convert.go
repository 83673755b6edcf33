// Package pathutil provides utilities for converting between absolute and relative paths.
//
// Files are discovered and loaded by absolute (or caller-supplied) path, while
// reports, include/exclude matching and MCP responses use paths relative to
// the project root with forward slashes. This package is the conversion
// layer between the two.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/Sources/App.swift", "/home/user/project") → "Sources/App.swift"
//   - ToRelative("/other/location/File.swift", "/home/user/project") → "/other/location/File.swift" (outside root)
//   - ToRelative("Sources/App.swift", "/home/user/project") → "Sources/App.swift" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// different volumes on Windows
		return absPath
	}

	// outside the root the absolute path is clearer
	if IsOutside(relPath) {
		return absPath
	}

	return relPath
}

// ToSlashRelative is the matching form of a path: relative to root when it
// lies inside it, cleaned otherwise, always with forward slashes. Unlike
// ToRelative it also relativizes relative paths against a relative root.
func ToSlashRelative(path, root string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !IsOutside(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// IsOutside reports whether a path produced by filepath.Rel escapes its base.
func IsOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
