package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/structure"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

// parserPoolData holds reusable tree-sitter parsers for one language.
// tree_sitter.Parser is not safe for concurrent use, so each Parse call
// checks one out.
type parserPoolData struct {
	pool sync.Pool
	once sync.Once
}

// TreeSitterParser parses every non-Swift language. Grammars load lazily on
// first use of their language.
type TreeSitterParser struct {
	mu        sync.RWMutex
	languages map[Language]*tree_sitter.Language
	pools     map[Language]*parserPoolData
}

func NewTreeSitterParser() *TreeSitterParser {
	p := &TreeSitterParser{
		languages: make(map[Language]*tree_sitter.Language),
		pools:     make(map[Language]*parserPoolData, len(languageSpecs)),
	}
	for lang := range languageSpecs {
		p.pools[lang] = &parserPoolData{}
	}
	return p
}

func (p *TreeSitterParser) Name() string {
	return "tree-sitter"
}

// Supports reports whether ext (with its dot, lower case) has a grammar.
func (p *TreeSitterParser) Supports(ext string) bool {
	_, ok := extensionLanguages[ext]
	return ok
}

// ensureLanguage loads a grammar once.
func (p *TreeSitterParser) ensureLanguage(lang Language) *tree_sitter.Language {
	// Fast path: already loaded
	p.mu.RLock()
	l, ok := p.languages[lang]
	p.mu.RUnlock()
	if ok {
		return l
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double-check after acquiring the write lock
	if l, ok := p.languages[lang]; ok {
		return l
	}
	l = tree_sitter.NewLanguage(languageSpecs[lang].grammar())
	p.languages[lang] = l
	return l
}

func (p *TreeSitterParser) acquire(lang Language) (*tree_sitter.Parser, func(), error) {
	data := p.pools[lang]
	language := p.ensureLanguage(lang)
	data.once.Do(func() {
		data.pool.New = func() any {
			tsParser := tree_sitter.NewParser()
			if err := tsParser.SetLanguage(language); err != nil {
				debug.LogParse("set %s grammar: %v", lang, err)
				tsParser.Close()
				return nil
			}
			return tsParser
		}
	})
	tsParser, _ := data.pool.Get().(*tree_sitter.Parser)
	if tsParser == nil {
		return nil, nil, fmt.Errorf("no %s parser available", lang)
	}
	return tsParser, func() { data.pool.Put(tsParser) }, nil
}

// Parse implements Parser.
func (p *TreeSitterParser) Parse(ctx context.Context, path string, content []byte) (idx *syntax.Index, tree *structure.Tree, err error) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extensionLanguages[ext]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tsParser, release, err := p.acquire(lang)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("TREE-SITTER PANIC in file %s: %v", path, r)
			idx, tree, err = nil, nil, fmt.Errorf("tree-sitter panic: %v", r)
		}
	}()

	// Tree-sitter mutates its input buffer through CGO
	buf := make([]byte, len(content))
	copy(buf, content)

	tsTree := tsParser.Parse(buf, nil)
	if tsTree == nil {
		return nil, nil, errors.New("tree-sitter returned no tree")
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.HasError() {
		debug.LogParse("%s: syntax errors, structure is best effort", path)
	}

	w := &treeWalker{ctx: ctx, spec: languageSpecs[lang], src: content, scopes: []scopeCtx{ctxGlobal}}
	module := &structure.Node{Kind: structure.KindModule, DeclLength: len(content)}
	for i := uint(0); i < root.ChildCount(); i++ {
		w.visit(root.Child(i), module)
	}
	if w.err != nil {
		return nil, nil, w.err
	}

	tree = &structure.Tree{Root: module}
	structure.FixExtents(tree)
	return syntax.NewIndex(w.tokens), tree, nil
}

// treeWalker converts a tree-sitter tree in one depth-first pass, emitting
// syntax tokens for leaves and structure nodes for mapped node types.
type treeWalker struct {
	ctx    context.Context
	spec   *languageSpec
	src    []byte
	tokens []syntax.Token
	scopes []scopeCtx
	seen   int
	err    error
}

func (w *treeWalker) visit(n *tree_sitter.Node, parent *structure.Node) {
	if n == nil || w.err != nil {
		return
	}
	w.seen++
	if w.seen%4096 == 0 {
		if err := w.ctx.Err(); err != nil {
			w.err = err
			return
		}
	}

	kind := n.Kind()
	start, end := int(n.StartByte()), int(n.EndByte())
	if w.classify(n, kind, start, end) {
		return
	}

	target := parent
	pushed := false
	if k, ok := w.structureKind(n, kind); ok {
		node := w.node(n, k, kind, start, end)
		parent.Children = append(parent.Children, node)
		target = node
		switch {
		case k.IsType():
			w.scopes = append(w.scopes, ctxType)
			pushed = true
		case k.IsFunction():
			w.scopes = append(w.scopes, ctxFunction)
			pushed = true
		}
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		w.visit(n.Child(i), target)
	}
	if pushed {
		w.scopes = w.scopes[:len(w.scopes)-1]
	}
}

func (w *treeWalker) scope() scopeCtx {
	return w.scopes[len(w.scopes)-1]
}

func (w *treeWalker) structureKind(n *tree_sitter.Node, kind string) (structure.Kind, bool) {
	if !n.IsNamed() {
		return structure.KindUnknown, false
	}
	if k, ok := w.spec.kinds[kind]; ok {
		return k, true
	}
	switch {
	case w.spec.functions[kind]:
		if w.scope() == ctxType {
			return structure.KindFunctionMethodInstance, true
		}
		return structure.KindFunctionFree, true
	case w.spec.bindings[kind]:
		switch w.scope() {
		case ctxGlobal:
			return structure.KindVarGlobal, true
		case ctxType:
			return structure.KindVarInstance, true
		}
		return structure.KindVarLocal, true
	}
	if isStructuralName(kind) {
		return structure.KindUnknown, true
	}
	return structure.KindUnknown, false
}

func isStructuralName(kind string) bool {
	for _, suffix := range []string{"_statement", "_declaration", "_definition", "_item"} {
		if strings.HasSuffix(kind, suffix) {
			return true
		}
	}
	return false
}

// node builds a structure node. With a braced body the head runs through
// the opening brace and the body stops before the closing one.
func (w *treeWalker) node(n *tree_sitter.Node, k structure.Kind, kind string, start, end int) *structure.Node {
	out := &structure.Node{Kind: k, Start: start, DeclLength: end - start}
	if k == structure.KindUnknown {
		out.RawKind = kind
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		body = n.ChildByFieldName("consequence")
	}
	if body == nil {
		return out
	}
	bodyStart, bodyEnd := int(body.StartByte()), int(body.EndByte())
	if bodyStart < start || bodyEnd > end || bodyStart >= len(w.src) {
		return out
	}
	last := end
	if end > start && w.src[end-1] == '}' {
		last = end - 1
	}
	if w.src[bodyStart] == '{' {
		out.DeclLength = bodyStart + 1 - start
	} else {
		out.DeclLength = bodyStart - start
	}
	out.BodyLength = max(last-(start+out.DeclLength), 0)
	return out
}

// classify emits syntax tokens. It returns true when the node's subtree is
// fully classified and need not be walked.
func (w *treeWalker) classify(n *tree_sitter.Node, kind string, start, end int) bool {
	named := n.IsNamed()
	switch {
	case named && strings.Contains(kind, "comment"):
		w.comment(start, end)
		return true
	case named && isStringKind(kind):
		w.emit(syntax.TagString, start, end)
		return true
	case named && isAttributeKind(kind):
		w.emit(syntax.TagAttribute, start, end)
		return false
	case n.ChildCount() > 0:
		return false
	}

	switch {
	case !named:
		if isWord(kind) {
			w.emit(syntax.TagKeyword, start, end)
		}
	case literalKeywords[kind]:
		w.emit(syntax.TagKeyword, start, end)
	case isTypeKind(kind):
		w.emit(syntax.TagTypeIdentifier, start, end)
	case kind == "identifier" || strings.HasSuffix(kind, "_identifier"):
		w.emit(syntax.TagIdentifier, start, end)
	case isNumberKind(kind):
		w.emit(syntax.TagNumber, start, end)
	}
	return true
}

func (w *treeWalker) emit(tag syntax.Tag, start, end int) {
	if end > start {
		w.tokens = append(w.tokens, syntax.Token{Tag: tag, Offset: start, Length: end - start})
	}
}

func (w *treeWalker) comment(start, end int) {
	text := w.src[start:end]
	switch {
	case isDocComment(text):
		w.emit(syntax.TagDocComment, start, end)
	case isMarkText(text):
		w.emit(syntax.TagCommentMark, start, end)
	default:
		w.emit(syntax.TagComment, start, end)
	}
	for _, span := range urlSpans(text) {
		w.emit(syntax.TagCommentURL, start+span[0], start+span[1])
	}
}

func isDocComment(text []byte) bool {
	if bytes.HasPrefix(text, []byte("/**/")) {
		return false
	}
	for _, prefix := range []string{"///", "/**", "//!"} {
		if bytes.HasPrefix(text, []byte(prefix)) {
			return true
		}
	}
	return false
}

func isMarkText(text []byte) bool {
	body := bytes.TrimLeft(text, "/#* \t")
	return bytes.HasPrefix(body, []byte("MARK:")) || bytes.HasPrefix(body, []byte("region"))
}

var literalKeywords = map[string]bool{
	"true": true, "false": true, "nil": true, "null": true, "none": true,
	"self": true, "this": true, "super": true, "undefined": true, "iota": true,
}

func isStringKind(kind string) bool {
	switch kind {
	case "char_literal", "rune_literal", "character_literal", "text_block", "heredoc", "nowdoc", "template_string":
		return true
	}
	return strings.Contains(kind, "string") && !strings.HasSuffix(kind, "_content")
}

func isAttributeKind(kind string) bool {
	switch kind {
	case "attribute", "attribute_item", "attribute_list", "decorator", "annotation", "marker_annotation":
		return true
	}
	return false
}

func isTypeKind(kind string) bool {
	switch kind {
	case "type_identifier", "primitive_type", "predefined_type", "builtin_type":
		return true
	}
	return false
}

func isNumberKind(kind string) bool {
	switch kind {
	case "number", "integer", "float":
		return true
	}
	for _, suffix := range []string{"int_literal", "integer_literal", "float_literal", "number_literal", "real_literal", "imaginary_literal", "floating_point_literal"} {
		if strings.HasSuffix(kind, suffix) {
			return true
		}
	}
	return false
}

func isWord(kind string) bool {
	letter := false
	for i := 0; i < len(kind); i++ {
		c := kind[i]
		switch {
		case isLetter(c):
			letter = true
		case c == '_':
		default:
			return false
		}
	}
	return letter
}
