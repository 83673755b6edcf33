package parser

import (
	"context"

	"github.com/standardbeagle/stylecheck/internal/structure"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

// SwiftParser is the built-in Swift backend. It needs no toolchain and never
// rejects input; malformed code yields a best-effort tree.
type SwiftParser struct{}

func NewSwiftParser() *SwiftParser {
	return &SwiftParser{}
}

func (p *SwiftParser) Name() string {
	return "swift"
}

// Parse implements Parser.
func (p *SwiftParser) Parse(ctx context.Context, path string, content []byte) (*syntax.Index, *structure.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s := scanSwift(content)
	tree, err := buildSwiftStructure(ctx, content, s.lexemes)
	if err != nil {
		return nil, nil, err
	}
	return syntax.NewIndex(s.tokens), tree, nil
}
