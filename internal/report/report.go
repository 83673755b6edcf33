// Package report renders lint results for humans (text) and tools (JSON).
package report

import (
	"fmt"
	"io"

	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/pkg/pathutil"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options control rendering.
type Options struct {
	Root    string // paths are shown relative to Root when FileResult.Rel is unset
	Color   bool
	Context bool // print the offending source line with a caret
	Summary bool
}

// Formatter writes one lint run.
type Formatter interface {
	Format(w io.Writer, res *lint.Result) error
}

// New returns the formatter for format ("" means text).
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "", FormatText:
		return NewText(opts), nil
	case FormatJSON:
		return NewJSON(opts), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
}

func displayPath(fr lint.FileResult, root string) string {
	if fr.Rel != "" {
		return fr.Rel
	}
	return pathutil.ToRelative(fr.Path, root)
}
