package parser

import (
	"context"
	"strings"

	"github.com/standardbeagle/stylecheck/internal/structure"
)

type frameKind uint8

const (
	frameRoot    frameKind = iota
	framePending           // head of a construct seen, body brace not yet
	frameBody              // inside the body of a declaration or statement
	frameBrace             // closure, else block or accessor block
	frameLine              // construct that ends with its line
)

type scopeCtx uint8

const (
	ctxGlobal scopeCtx = iota
	ctxType
	ctxFunction
)

type frame struct {
	kind      frameKind
	node      *structure.Node
	ctx       scopeCtx
	depth     int  // open ( and [ inside this frame
	chain     bool // node is an if extended by its else block
	accessors bool // brace holding a computed property's accessors
	tail      bool // line frame carrying a repeat-while condition
	isVar     bool
	sawColon  bool
	sawAssign bool
	curCase   *structure.Node
}

func (f *frame) sink() *structure.Node {
	if f.curCase != nil {
		return f.curCase
	}
	return f.node
}

var statementKinds = map[string]structure.Kind{
	"if":     structure.KindIf,
	"guard":  structure.KindGuard,
	"while":  structure.KindWhile,
	"for":    structure.KindForEach,
	"switch": structure.KindSwitch,
	"repeat": structure.KindRepeatWhile,
	"do":     structure.KindBrace,
	"catch":  structure.KindBrace,
	"defer":  structure.KindBrace,
}

var typeKinds = map[string]structure.Kind{
	"class":     structure.KindClass,
	"actor":     structure.KindClass,
	"struct":    structure.KindStruct,
	"enum":      structure.KindEnum,
	"protocol":  structure.KindProtocol,
	"extension": structure.KindExtension,
}

var accessorKinds = map[string]structure.Kind{
	"get":     structure.KindFunctionAccessorGetter,
	"set":     structure.KindFunctionAccessorSetter,
	"willSet": structure.KindFunctionAccessorWillSet,
	"didSet":  structure.KindFunctionAccessorDidSet,
}

// swiftBuilder turns the lexeme stream into a structure tree with a frame
// stack. It is lenient: unbalanced braces close at end of file and stray
// closing braces are ignored.
type swiftBuilder struct {
	lex     []lexeme
	stack   []*frame
	lastSig int // end of the last significant lexeme
	prev    *lexeme

	modStatic bool
	modClass  bool

	// one-shot links, consumed by the next significant lexeme
	chainIf    *structure.Node
	elseTarget *structure.Node
	repeatTail *structure.Node
}

func buildSwiftStructure(ctx context.Context, src []byte, lexemes []lexeme) (*structure.Tree, error) {
	root := &structure.Node{Kind: structure.KindModule}
	b := &swiftBuilder{
		lex:   lexemes,
		stack: []*frame{{kind: frameRoot, node: root, ctx: ctxGlobal}},
	}
	for i := range lexemes {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		b.step(i)
	}
	b.closeAll(len(src))

	root.DeclLength = len(src)
	tree := &structure.Tree{Root: root}
	structure.FixExtents(tree)
	return tree, nil
}

func (b *swiftBuilder) top() *frame {
	return b.stack[len(b.stack)-1]
}

func (b *swiftBuilder) push(f *frame) {
	b.stack = append(b.stack, f)
}

func (b *swiftBuilder) pop() *frame {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	return f
}

func (b *swiftBuilder) attach(n *structure.Node) {
	p := b.top().sink()
	p.Children = append(p.Children, n)
}

func (b *swiftBuilder) nextSig(i int) *lexeme {
	for j := i + 1; j < len(b.lex); j++ {
		if k := b.lex[j].kind; k != lexNewline && k != lexComment {
			return &b.lex[j]
		}
	}
	return nil
}

func (b *swiftBuilder) clearModifiers() {
	b.modStatic, b.modClass = false, false
}

func (b *swiftBuilder) step(i int) {
	l := &b.lex[i]
	switch l.kind {
	case lexComment:
		return
	case lexNewline:
		b.newline(i)
		return
	}

	chain, elseT, rep := b.chainIf, b.elseTarget, b.repeatTail
	b.chainIf, b.elseTarget, b.repeatTail = nil, nil, nil

	switch {
	case l.kind == lexPunct:
		b.punct(i, l, elseT)
	case l.kind == lexWord && l.keyword:
		b.keyword(i, l, chain, elseT, rep)
	}
	b.lastSig = l.end
	b.prev = l
}

func (b *swiftBuilder) newline(i int) {
	top := b.top()
	if top.depth > 0 {
		return
	}
	switch top.kind {
	case frameLine:
		if !b.continues(i) {
			b.finishLine()
		}
	case framePending:
		if top.node.Kind.IsFunction() && !b.functionContinues(i) {
			b.finishPending()
		}
	}
}

// continues reports whether the expression on the line ending at i carries
// on to the next line.
func (b *swiftBuilder) continues(i int) bool {
	if b.prev != nil && b.prev.kind == lexPunct && strings.Contains("=+-*/%<&|^:.,", b.prev.text) {
		return true
	}
	next := b.nextSig(i)
	return next != nil && next.kind == lexPunct && strings.Contains(".+-*/%=<>&|^?:", next.text)
}

// functionContinues reports whether a function head goes on past the line
// ending at i. A head that stops at a newline is a requirement without a
// body.
func (b *swiftBuilder) functionContinues(i int) bool {
	next := b.nextSig(i)
	if next == nil {
		return false
	}
	switch next.text {
	case "{", "-", "where", "throws", "rethrows", "async":
		return true
	}
	return false
}

func (b *swiftBuilder) finishLine() {
	f := b.pop()
	n := f.node
	if f.tail {
		n.BodyLength = max(b.lastSig-(n.Start+n.DeclLength), n.BodyLength)
		return
	}
	n.DeclLength = max(b.lastSig-n.Start, 0)
}

func (b *swiftBuilder) finishPending() {
	f := b.pop()
	f.node.DeclLength = max(b.lastSig-f.node.Start, 0)
}

func (b *swiftBuilder) closeCase(f *frame) {
	if f.curCase != nil {
		f.curCase.DeclLength = max(b.lastSig-f.curCase.Start, 0)
		f.curCase = nil
	}
}

func (b *swiftBuilder) punct(i int, l *lexeme, elseT *structure.Node) {
	top := b.top()
	switch l.text {
	case "(", "[":
		top.depth++
	case ")", "]":
		if top.depth > 0 {
			top.depth--
		}
	case ";":
		b.clearModifiers()
		if top.depth > 0 {
			return
		}
		switch {
		case top.kind == frameLine:
			b.finishLine()
		case top.kind == framePending && top.node.Kind.IsFunction():
			b.finishPending()
		}
	case ":":
		if top.kind == frameLine && top.depth == 0 {
			top.sawColon = true
		}
	case "=":
		if top.kind == frameLine && top.depth == 0 {
			top.sawAssign = true
		}
	case "{":
		b.openBrace(i, l, elseT)
	case "}":
		b.closeBrace(l)
	}
}

func (b *swiftBuilder) openBrace(i int, l *lexeme, elseT *structure.Node) {
	b.clearModifiers()
	top := b.top()
	switch {
	case elseT != nil:
		b.push(&frame{kind: frameBrace, node: elseT, ctx: ctxFunction, chain: true})
	case top.kind == framePending && top.depth == 0:
		n := top.node
		n.DeclLength = l.end - n.Start
		top.kind = frameBody
		if n.Kind.IsType() {
			top.ctx = ctxType
		} else {
			top.ctx = ctxFunction
		}
	case top.kind == frameLine && top.isVar && top.depth == 0 && b.accessorBlock(i, top):
		b.push(&frame{kind: frameBrace, node: top.node, ctx: ctxFunction, accessors: true})
	default:
		n := &structure.Node{Kind: structure.KindClosure, Start: l.off, DeclLength: 1}
		b.attach(n)
		b.push(&frame{kind: frameBrace, node: n, ctx: ctxFunction})
	}
}

// accessorBlock reports whether the brace at i opens a property's accessor
// block rather than a closure: either the property has a type but no
// initializer, or the block starts with an accessor keyword.
func (b *swiftBuilder) accessorBlock(i int, f *frame) bool {
	if f.sawColon && !f.sawAssign {
		return true
	}
	next := b.nextSig(i)
	return next != nil && next.keyword && accessorKinds[next.text] != structure.KindUnknown
}

func (b *swiftBuilder) closeBrace(l *lexeme) {
	b.clearModifiers()
	for {
		switch b.top().kind {
		case frameLine:
			b.finishLine()
			continue
		case framePending:
			b.finishPending()
			continue
		}
		break
	}

	top := b.top()
	if top.kind == frameRoot {
		return
	}
	b.pop()
	if top.accessors {
		return
	}
	b.closeCase(top)

	n := top.node
	n.BodyLength = max(l.off-(n.Start+n.DeclLength), 0)
	switch {
	case n.Kind == structure.KindIf:
		b.chainIf = n
	case n.Kind == structure.KindRepeatWhile && !top.chain:
		b.repeatTail = n
	}
}

func (b *swiftBuilder) keyword(i int, l *lexeme, chain, elseT, rep *structure.Node) {
	top := b.top()
	switch l.text {
	case "else":
		if chain != nil {
			b.elseTarget = chain
		}
	case "while":
		if rep != nil && top.kind != framePending {
			b.push(&frame{kind: frameLine, node: rep, ctx: top.ctx, tail: true})
			return
		}
		b.statement(l, structure.KindWhile, elseT)
	case "if", "guard", "for", "switch", "repeat", "do", "catch", "defer":
		b.statement(l, statementKinds[l.text], elseT)
	case "func", "init", "deinit", "subscript":
		b.function(i, l)
	case "class":
		if next := b.nextSig(i); next != nil && next.kind == lexWord && declModifiers[next.text] {
			b.modClass = true
			return
		}
		b.typeDecl(i, l, structure.KindClass)
	case "struct", "enum", "protocol", "extension", "actor":
		b.typeDecl(i, l, typeKinds[l.text])
	case "static":
		b.modStatic = true
	case "let", "var":
		b.binding(l)
	case "typealias":
		if top.kind == framePending || top.kind == frameLine || top.depth > 0 {
			return
		}
		n := &structure.Node{Kind: structure.KindTypeAlias, Start: l.off}
		b.attach(n)
		b.push(&frame{kind: frameLine, node: n, ctx: top.ctx})
	case "case", "default":
		b.caseLabel(l)
	case "get", "set", "willSet", "didSet":
		if top.kind != frameBrace || !top.accessors {
			return
		}
		if next := b.nextSig(i); next == nil || (next.text != "{" && next.text != "(") {
			return
		}
		n := &structure.Node{Kind: accessorKinds[l.text], Start: l.off}
		b.attach(n)
		b.push(&frame{kind: framePending, node: n, ctx: ctxFunction})
	}
}

func (b *swiftBuilder) statement(l *lexeme, kind structure.Kind, elseT *structure.Node) {
	top := b.top()
	if top.kind == framePending {
		if !top.node.Kind.IsFunction() || top.depth > 0 {
			return
		}
		b.finishPending()
	}
	n := &structure.Node{Kind: kind, Start: l.off}
	if elseT != nil {
		elseT.Children = append(elseT.Children, n)
	} else {
		b.attach(n)
	}
	b.push(&frame{kind: framePending, node: n, ctx: b.top().ctx})
}

func (b *swiftBuilder) function(i int, l *lexeme) {
	top := b.top()
	if top.kind == framePending || top.kind == frameLine || top.depth > 0 {
		return
	}
	var kind structure.Kind
	switch l.text {
	case "init":
		kind = structure.KindFunctionConstructor
	case "deinit":
		kind = structure.KindFunctionDestructor
	case "subscript":
		kind = structure.KindFunctionSubscript
	default:
		next := b.nextSig(i)
		switch {
		case next != nil && next.kind == lexPunct:
			kind = structure.KindFunctionOperator
		case top.ctx != ctxType:
			kind = structure.KindFunctionFree
		case b.modStatic:
			kind = structure.KindFunctionMethodStatic
		case b.modClass:
			kind = structure.KindFunctionMethodClass
		default:
			kind = structure.KindFunctionMethodInstance
		}
	}
	b.clearModifiers()

	n := &structure.Node{Kind: kind, Start: l.off}
	b.attach(n)
	b.push(&frame{kind: framePending, node: n, ctx: top.ctx})
}

func (b *swiftBuilder) typeDecl(i int, l *lexeme, kind structure.Kind) {
	top := b.top()
	if top.kind == framePending || top.kind == frameLine || top.depth > 0 {
		return
	}
	next := b.nextSig(i)
	if next == nil || next.kind != lexWord || next.keyword {
		return
	}
	b.clearModifiers()
	n := &structure.Node{Kind: kind, Start: l.off}
	b.attach(n)
	b.push(&frame{kind: framePending, node: n, ctx: top.ctx})
}

func (b *swiftBuilder) binding(l *lexeme) {
	top := b.top()
	if top.kind == framePending || top.kind == frameLine || top.depth > 0 {
		return
	}
	if b.prev != nil && b.prev.keyword && (b.prev.text == "case" || b.prev.text == "catch") {
		return
	}

	var kind structure.Kind
	switch top.ctx {
	case ctxGlobal:
		kind = structure.KindVarGlobal
	case ctxType:
		switch {
		case b.modStatic:
			kind = structure.KindVarStatic
		case b.modClass:
			kind = structure.KindVarClass
		default:
			kind = structure.KindVarInstance
		}
	default:
		kind = structure.KindVarLocal
	}
	b.clearModifiers()

	n := &structure.Node{Kind: kind, Start: l.off}
	b.attach(n)
	b.push(&frame{kind: frameLine, node: n, ctx: top.ctx, isVar: l.text == "var"})
}

func (b *swiftBuilder) caseLabel(l *lexeme) {
	top := b.top()
	if top.kind != frameBody {
		return
	}
	switch top.node.Kind {
	case structure.KindSwitch:
		b.closeCase(top)
		c := &structure.Node{Kind: structure.KindCase, Start: l.off}
		top.node.Children = append(top.node.Children, c)
		top.curCase = c
	case structure.KindEnum:
		if l.text != "case" {
			return
		}
		n := &structure.Node{Kind: structure.KindEnumCase, Start: l.off}
		b.attach(n)
		b.push(&frame{kind: frameLine, node: n, ctx: top.ctx})
	}
}

// closeAll ends every open frame at end of file.
func (b *swiftBuilder) closeAll(end int) {
	for len(b.stack) > 1 {
		top := b.top()
		switch top.kind {
		case frameLine:
			b.finishLine()
		case framePending:
			b.finishPending()
		default:
			b.pop()
			b.closeCase(top)
			if !top.accessors {
				n := top.node
				n.BodyLength = max(end-(n.Start+n.DeclLength), 0)
			}
		}
	}
}
