package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/standardbeagle/stylecheck/internal/structure"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

const (
	swiftSyntaxPrefix = "source.lang.swift.syntaxtype."
	swiftKindPrefix   = "source.lang.swift."
)

// SourceKitten runs the sourcekitten CLI for Swift files, giving the same
// syntax map and structure SourceKit reports.
type SourceKitten struct {
	path string
}

// NewSourceKitten resolves the binary; an empty path means "sourcekitten"
// on PATH.
func NewSourceKitten(path string) (*SourceKitten, error) {
	if path == "" {
		path = "sourcekitten"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, err
	}
	return &SourceKitten{path: resolved}, nil
}

func (s *SourceKitten) Name() string {
	return "sourcekitten"
}

// Parse implements Parser. The content is written to a temporary file since
// sourcekitten reads from disk.
func (s *SourceKitten) Parse(ctx context.Context, path string, content []byte) (*syntax.Index, *structure.Tree, error) {
	tmp, err := os.CreateTemp("", "stylecheck-*.swift")
	if err != nil {
		return nil, nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, nil, err
	}

	syntaxOut, err := s.run(ctx, "syntax", tmp.Name())
	if err != nil {
		return nil, nil, err
	}
	structureOut, err := s.run(ctx, "structure", tmp.Name())
	if err != nil {
		return nil, nil, err
	}

	idx, err := DecodeSyntax(syntaxOut)
	if err != nil {
		return nil, nil, err
	}
	tree, err := DecodeStructure(structureOut, len(content))
	if err != nil {
		return nil, nil, err
	}
	return idx, tree, nil
}

func (s *SourceKitten) run(ctx context.Context, command, file string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.path, command, "--file", file)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("sourcekitten %s: %w: %s", command, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

type syntaxEntry struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Type   string `json:"type"`
}

var syntaxTypeTags = map[string]syntax.Tag{
	"keyword":                     syntax.TagKeyword,
	"identifier":                  syntax.TagIdentifier,
	"typeidentifier":              syntax.TagTypeIdentifier,
	"number":                      syntax.TagNumber,
	"string":                      syntax.TagString,
	"string_interpolation_anchor": syntax.TagString,
	"comment":                     syntax.TagComment,
	"comment.mark":                syntax.TagCommentMark,
	"comment.url":                 syntax.TagCommentURL,
	"doccomment":                  syntax.TagDocComment,
	"doccomment.field":            syntax.TagDocCommentField,
}

// DecodeSyntax converts `sourcekitten syntax` output into an index. Unknown
// syntax types classify as plain code.
func DecodeSyntax(data []byte) (*syntax.Index, error) {
	var entries []syntaxEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode syntax map: %w", err)
	}
	tokens := make([]syntax.Token, 0, len(entries))
	for _, e := range entries {
		tokens = append(tokens, syntax.Token{Tag: syntaxTag(e.Type), Offset: e.Offset, Length: e.Length})
	}
	return syntax.NewIndex(tokens), nil
}

func syntaxTag(kind string) syntax.Tag {
	name := strings.TrimPrefix(kind, swiftSyntaxPrefix)
	if tag, ok := syntaxTypeTags[name]; ok {
		return tag
	}
	switch {
	case strings.HasPrefix(name, "attribute."):
		return syntax.TagAttribute
	case strings.HasPrefix(name, "buildconfig."):
		return syntax.TagBuildConfig
	}
	return syntax.TagCode
}

type structureEntry struct {
	Kind         string           `json:"key.kind"`
	Offset       int              `json:"key.offset"`
	Length       int              `json:"key.length"`
	BodyOffset   *int             `json:"key.bodyoffset"`
	BodyLength   *int             `json:"key.bodylength"`
	Substructure []structureEntry `json:"key.substructure"`
}

// DecodeStructure converts `sourcekitten structure` output into a tree over
// a file of length bytes. Kinds outside the known vocabulary are kept as
// unknown nodes with their raw name.
func DecodeStructure(data []byte, length int) (*structure.Tree, error) {
	var top structureEntry
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	children := make([]*structure.Node, 0, len(top.Substructure))
	for i := range top.Substructure {
		children = append(children, decodeNode(&top.Substructure[i]))
	}
	tree := structure.NewTree(length, children...)
	structure.FixExtents(tree)
	return tree, nil
}

func decodeNode(e *structureEntry) *structure.Node {
	n := &structure.Node{Start: e.Offset, DeclLength: e.Length}
	if kind, ok := structure.ParseKind(strings.TrimPrefix(e.Kind, swiftKindPrefix)); ok {
		n.Kind = kind
	} else {
		n.RawKind = e.Kind
	}
	if e.BodyOffset != nil && e.BodyLength != nil && *e.BodyOffset >= e.Offset {
		n.DeclLength = *e.BodyOffset - e.Offset
		n.BodyLength = *e.BodyLength
	}
	for i := range e.Substructure {
		n.Children = append(n.Children, decodeNode(&e.Substructure[i]))
	}
	return n
}
