// Package source holds the immutable per-file input the rules run against:
// the raw text, the parser's classification index and its structure tree.
package source

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/standardbeagle/stylecheck/internal/structure"
	"github.com/standardbeagle/stylecheck/internal/syntax"
	"github.com/standardbeagle/stylecheck/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File is the (text, classification, tree) triple for one source file.
// Syntax and Structure are nil when the parser failed or was not run; in
// that case ParseErr carries the reason.
type File struct {
	ID        types.FileID
	Path      string
	Content   []byte
	Syntax    syntax.Classifier
	Structure *structure.Tree
	ParseErr  error

	lineIdx []int // offsets of '\n'
}

// New wraps content without any parser output.
func New(id types.FileID, path string, content []byte) *File {
	return &File{
		ID:      id,
		Path:    path,
		Content: content,
		lineIdx: buildLineIndex(content),
	}
}

// NewString is New for in-memory snippets.
func NewString(content string) *File {
	return New(0, "<memory>", []byte(content))
}

// Load reads path from disk and strips a UTF-8 byte order mark.
func Load(id types.FileID, path string) (*File, error) {
	// #nosec G304 -- path comes from discovery or the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	return New(id, path, content), nil
}

// WithParse returns a copy of f carrying the parser output.
func (f *File) WithParse(idx syntax.Classifier, tree *structure.Tree, err error) *File {
	out := *f
	out.Syntax = idx
	out.Structure = tree
	out.ParseErr = err
	return &out
}

// Text returns the content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Len is the content length in bytes.
func (f *File) Len() int {
	return len(f.Content)
}

// TagsAt looks up the classification at offset; a file without a
// classification index reports the empty set.
func (f *File) TagsAt(offset int) syntax.TagSet {
	if f.Syntax == nil {
		return 0
	}
	return f.Syntax.TagsAt(offset)
}

// Location builds a location in this file.
func (f *File) Location(offset int) types.Location {
	return types.NewLocation(f.ID, offset)
}

// Position converts a byte offset into a 1-based line and column.
// Offsets past the end clamp to the end of the file.
func (f *File) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	// number of newlines strictly before offset
	n := sort.SearchInts(f.lineIdx, offset)
	lineStart := 0
	if n > 0 {
		lineStart = f.lineIdx[n-1] + 1
	}
	return n + 1, offset - lineStart + 1
}

// PositionString formats offset as "path:line:col".
func (f *File) PositionString(offset int) string {
	line, col := f.Position(offset)
	return fmt.Sprintf("%s:%d:%d", f.Path, line, col)
}

// Line returns the text of the 1-based line without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = f.lineIdx[n-2] + 1
	}
	end := len(f.Content)
	if n-1 < len(f.lineIdx) {
		end = f.lineIdx[n-1]
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}

func buildLineIndex(content []byte) []int {
	idx := make([]int, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}
