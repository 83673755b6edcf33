package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser reads a root .gitignore and translates its entries into
// doublestar globs so discovery can treat them like any other exclusion.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gp.parse(file)
}

func (gp *GitignoreParser) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single .gitignore line.
func (gp *GitignoreParser) AddPattern(line string) {
	var p GitignorePattern
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = line[1:]
	}
	// a slash in the middle anchors the pattern to the root, as in git
	if strings.Contains(line, "/") {
		p.Absolute = true
	}
	p.Pattern = line
	if line != "" {
		gp.patterns = append(gp.patterns, p)
	}
}

// ShouldIgnore applies the patterns in order to a slash-separated path
// relative to the root; the last matching pattern decides.
func (gp *GitignoreParser) ShouldIgnore(path string) bool {
	path = filepath.ToSlash(path)
	ignored := false
	for _, p := range gp.patterns {
		for _, glob := range p.globs() {
			if ok, _ := doublestar.Match(glob, path); ok {
				ignored = !p.Negate
				break
			}
		}
	}
	return ignored
}

// GetExclusionPatterns returns the non-negated entries as exclusion globs.
// Negations cannot be expressed as an exclusion and are dropped.
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var exclusions []string
	for _, p := range gp.patterns {
		if p.Negate {
			continue
		}
		exclusions = append(exclusions, p.globs()[0])
	}
	return exclusions
}

// globs renders the pattern as doublestar globs. The first one is the form
// used for exclusions; a file pattern also matches as a directory.
func (p GitignorePattern) globs() []string {
	base := p.Pattern
	if !p.Absolute {
		base = "**/" + base
	}
	if p.Directory {
		return []string{base + "/**"}
	}
	return []string{base, base + "/**"}
}
