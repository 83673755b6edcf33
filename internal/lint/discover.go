package lint

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/stylecheck/internal/debug"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/security"
	"github.com/standardbeagle/stylecheck/pkg/pathutil"
)

// Filter decides which discovered paths are linted. Patterns are doublestar
// globs matched against slash-separated paths relative to Root.
type Filter struct {
	Root      string
	Include   []string // empty includes everything
	Exclude   []string
	Supported func(path string) bool
	Validator *security.FileValidator
}

// Rel returns path relative to the filter root with forward slashes, or
// the cleaned path when it lies outside the root.
func (f *Filter) Rel(path string) string {
	return pathutil.ToSlashRelative(path, f.Root)
}

// Excluded reports whether rel matches an exclusion pattern.
func (f *Filter) Excluded(rel string) bool {
	for _, pattern := range f.Exclude {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// Included reports whether rel matches an inclusion pattern.
func (f *Filter) Included(rel string) bool {
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// Accept applies the full filter to a discovered file.
func (f *Filter) Accept(path string) bool {
	rel := f.Rel(path)
	if f.Excluded(rel) || !f.Included(rel) {
		return false
	}
	if f.Supported != nil && !f.Supported(path) {
		return false
	}
	if f.Validator != nil {
		if err := f.Validator.Validate(path); err != nil {
			debug.LogLint("skipping %s: %v", rel, err)
			return false
		}
	}
	return true
}

// Discover expands paths into the sorted, de-duplicated list of files to
// lint. Directories are walked and filtered; files named explicitly are
// kept even when they miss the include patterns, but exclusions and the
// parser check still apply. Missing paths fail with a FileError.
func Discover(ctx context.Context, f *Filter, paths []string) ([]string, error) {
	if len(paths) == 0 {
		root := f.Root
		if root == "" {
			root = "."
		}
		paths = []string{root}
	}
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, scerrors.NewFileError("stat", p, err)
		}
		if !info.IsDir() {
			rel := f.Rel(p)
			if f.Excluded(rel) || (f.Supported != nil && !f.Supported(p)) {
				continue
			}
			add(filepath.Clean(p))
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrPermission) {
					debug.LogLint("permission denied: %s", path)
					return nil
				}
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && f.Excluded(f.Rel(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if f.Accept(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, scerrors.NewFileError("walk", p, err)
		}
	}

	sort.Strings(out)
	return out, nil
}
