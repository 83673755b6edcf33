// Package parser produces the two parse artifacts the rules consume: a
// syntax classification and a structure tree. Swift files go through the
// built-in Swift parser or, when available, SourceKitten; other languages go
// through tree-sitter grammars.
package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/stylecheck/internal/debug"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/structure"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

// ErrUnsupported is returned for files no parser handles.
var ErrUnsupported = errors.New("unsupported file type")

// Parser produces the syntax classification and structure tree of one file.
type Parser interface {
	Name() string
	Parse(ctx context.Context, path string, content []byte) (*syntax.Index, *structure.Tree, error)
}

// Options selects the Swift backend.
type Options struct {
	SourceKitten     bool   // prefer an installed sourcekitten for .swift files
	SourceKittenPath string // binary name or path, default "sourcekitten"
}

// Dispatcher routes a file to a parser by extension.
type Dispatcher struct {
	swift      Parser
	treeSitter *TreeSitterParser
}

// NewDispatcher builds a dispatcher. A requested SourceKitten that cannot be
// found falls back to the built-in Swift parser.
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		swift:      NewSwiftParser(),
		treeSitter: NewTreeSitterParser(),
	}
	if opts.SourceKitten {
		sk, err := NewSourceKitten(opts.SourceKittenPath)
		if err != nil {
			debug.LogParse("sourcekitten unavailable, using built-in swift parser: %v", err)
		} else {
			d.swift = sk
		}
	}
	return d
}

func (d *Dispatcher) Name() string {
	return "dispatch"
}

// For returns the parser responsible for path.
func (d *Dispatcher) For(path string) (Parser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".swift" {
		return d.swift, true
	}
	if d.treeSitter.Supports(ext) {
		return d.treeSitter, true
	}
	return nil, false
}

// Supported reports whether some parser handles path.
func (d *Dispatcher) Supported(path string) bool {
	_, ok := d.For(path)
	return ok
}

// Parse implements Parser.
func (d *Dispatcher) Parse(ctx context.Context, path string, content []byte) (*syntax.Index, *structure.Tree, error) {
	p, ok := d.For(path)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return p.Parse(ctx, path, content)
}

// Extensions lists every file extension a dispatcher handles.
func Extensions() []string {
	exts := []string{".swift"}
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Attach parses file with p and returns a copy carrying the results. A parse
// failure is recorded on the copy as a ParseError rather than returned, so
// rules that need neither artifact still run. Context cancellation is
// returned.
func Attach(ctx context.Context, p Parser, file *source.File) (*source.File, error) {
	idx, tree, err := p.Parse(ctx, file.Path, file.Content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		perr := scerrors.NewParseError(file.ID, file.Path, p.Name(), err)
		return file.WithParse(nil, nil, perr), nil
	}
	var classifier syntax.Classifier
	if idx != nil {
		classifier = idx
	}
	return file.WithParse(classifier, tree, nil), nil
}
