package rules

import (
	"bytes"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/pattern"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/structure"
)

const IDOperatorWhitespace = "operator_whitespace"

// Longest alternatives first. The first group lists tokens that contain
// operator characters but are not checked (comment delimiters, arrows,
// ranges, shifts, identity and nil-coalescing).
const operatorExpr = `(?P<skip>//|/\*|\*/|->|\.\.\.|\.\.<|<<=|>>=|<<|>>|===|!==|\?\?)` +
	`|(?P<at>==|!=|<=|>=|&&|\|\||\+=|-=|\*=|/=|%=|[-+*/%<>=])`

// Operators are only checked inside these constructs.
var operatorScopeKinds = structure.NewKindSet(
	structure.KindIf,
	structure.KindGuard,
	structure.KindWhile,
	structure.KindRepeatWhile,
	structure.KindFor,
	structure.KindForEach,
	structure.KindSwitch,
	structure.KindVarGlobal,
	structure.KindVarInstance,
	structure.KindVarStatic,
	structure.KindVarClass,
	structure.KindVarLocal,
	structure.KindVarParameter,
)

// OperatorWhitespaceRule wants exactly one space on each side of a binary
// operator inside control-flow statements and variable bindings.
type OperatorWhitespaceRule struct {
	base
	pattern *pattern.Pattern
}

// NewOperatorWhitespaceRule compiles the operator scanner.
func NewOperatorWhitespaceRule(sev diag.Severity) (*OperatorWhitespaceRule, error) {
	ps, err := compile(IDOperatorWhitespace, operatorExpr)
	if err != nil {
		return nil, err
	}
	return &OperatorWhitespaceRule{
		base: newBase(Description{
			ID:        IDOperatorWhitespace,
			Name:      "Operator Whitespace",
			Summary:   "Binary operators should have exactly one space before and after",
			Kind:      diag.KindOperatorWhitespace,
			NeedsTree: true,
			NonTriggering: []string{
				"let a = 1 + 2 - 3 % 4 / 5 * 6",
				"let a = true && false || true",
				"let a = 1 != 2",
				"a /= 1",
				"if 2 + 3 < 2 { }",
				"//MARK:",
				"func abc<>() { }",
				"let b = -1",
				"let c: Array<Int> = []",
				"let d: Dictionary<String, [Int?]> = [:]",
				"let e = Set<Int>()",
				"for i in 0..<5 { }",
			},
			Triggering: []string{
				"let a= 1 + 2 / 3",
				"let a =1 - 5 % 6",
				"let a = 1* 2",
				"let a = true&& false || true",
				"let a = 1< 3 && 4 > 5",
				"if 2+ 3 < 2 { }",
				"while i+1 < 2 { }",
				"let x = a<B",
				"if a<Max && b > c { }",
			},
		}, sev, "There should be a space before and after binary operators"),
		pattern: ps[0],
	}, nil
}

// Validate generates operator candidates from the text, drops unary and
// generic uses, then keeps badly spaced ones that sit strictly inside a
// whitelisted node. A file without a structure tree yields nothing.
func (r *OperatorWhitespaceRule) Validate(file *source.File) []diag.Violation {
	if file.Structure == nil {
		return nil
	}
	scopes := structure.FlattenTree(file.Structure, operatorScopeKinds.Match)
	if len(scopes) == 0 {
		return nil
	}

	content := file.Content
	var out []diag.Violation
	genericDepth := 0
	prevEnd := 0
	for _, m := range pattern.Find(file, r.pattern, 0) {
		start, end := m.Range.Offset, m.Range.End()
		// generic brackets never span lines
		if bytes.IndexByte(content[prevEnd:start], '\n') >= 0 {
			genericDepth = 0
		}
		prevEnd = end
		if isSkipToken(content, m) {
			continue
		}

		op := string(content[start:end])
		switch {
		case op == "<" && isGenericOpen(content, start):
			genericDepth++
			continue
		case op == ">" && genericDepth > 0:
			genericDepth--
			continue
		}

		if !isBinary(content, start, op) {
			continue
		}
		if spacedBefore(content, start) && spacedAfter(content, end) {
			continue
		}
		if !structure.ContainedByAny(scopes, file.Location(start)) {
			continue
		}
		out = append(out, r.violation(file, start))
	}
	return out
}

// isSkipToken reports whether m came from the skip alternative.
func isSkipToken(content []byte, m pattern.Match) bool {
	switch string(content[m.Full.Offset:m.Full.End()]) {
	case "//", "/*", "*/", "->", "...", "..<", "<<=", ">>=", "<<", ">>", "===", "!==", "??":
		return true
	}
	return false
}

// alwaysBinary operators cannot be prefix or postfix.
var alwaysBinary = map[string]bool{
	"=": true, "==": true, "!=": true, "<=": true, ">=": true, "&&": true, "||": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// isBinary decides from the preceding character whether op at start is used
// as a binary operator. An operator that begins a line is a continuation or
// a prefix and is never treated as binary unless it can only be binary.
func isBinary(content []byte, start int, op string) bool {
	if alwaysBinary[op] {
		return true
	}
	i := start - 1
	for i >= 0 && (content[i] == ' ' || content[i] == '\t') {
		i--
	}
	if i < 0 || !isOperandEnd(content[i]) {
		return false
	}
	// "case -1", "return -x"
	j := i
	for j >= 0 && isIdentByte(content[j]) {
		j--
	}
	return !prefixContextWords[string(content[j+1:i+1])]
}

// Words after which an operator character starts an operand.
var prefixContextWords = map[string]bool{
	"return": true, "case": true, "in": true, "where": true, "throw": true,
	"if": true, "while": true, "guard": true, "switch": true, "else": true,
	"try": true, "await": true, "is": true, "as": true, "yield": true,
}

func isOperandEnd(c byte) bool {
	switch {
	case isIdentByte(c):
		return true
	case c == ')' || c == ']' || c == '"' || c == '\'' || c == '?' || c == '!' || c == '$':
		return true
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// isGenericOpen treats "Name<T>" and "name<>" as a generic argument list:
// the "<" follows a name directly and a matching ">" closes it on the same
// line with only type syntax in between. "a<B" with no closing bracket is a
// comparison.
func isGenericOpen(content []byte, start int) bool {
	if start == 0 || !isIdentByte(content[start-1]) {
		return false
	}
	if start+1 >= len(content) {
		return false
	}
	next := content[start+1]
	if next != '>' && next != '[' && next != '(' && !(next >= 'A' && next <= 'Z') {
		return false
	}
	return closesGeneric(content, start+1)
}

// closesGeneric scans from just after an opening "<" for its matching ">".
func closesGeneric(content []byte, i int) bool {
	depth := 1
	for ; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '<':
			depth++
		case c == '>':
			depth--
			if depth == 0 {
				return true
			}
		case c == '-' && i+1 < len(content) && content[i+1] == '>':
			// function type arrow
			i++
		case c == '&' && i+1 < len(content) && content[i+1] == '&':
			return false
		case c == '&', c == ',', c == '.', c == ':', c == '?', c == '!',
			c == '[', c == ']', c == '(', c == ')', c == ' ', c == '\t':
		case isIdentByte(c):
		default:
			return false
		}
	}
	return false
}

// spacedBefore wants exactly one space before the operator, or only
// indentation when it begins a line.
func spacedBefore(content []byte, start int) bool {
	if start == 0 {
		return true
	}
	if content[start-1] == ' ' && (start < 2 || (content[start-2] != ' ' && content[start-2] != '\t')) {
		return true
	}
	i := start - 1
	for i >= 0 && (content[i] == ' ' || content[i] == '\t') {
		i--
	}
	return i < 0 || content[i] == '\n'
}

// spacedAfter wants exactly one space after the operator, or the end of
// the line.
func spacedAfter(content []byte, end int) bool {
	if end >= len(content) || content[end] == '\n' || content[end] == '\r' {
		return true
	}
	if content[end] != ' ' {
		return false
	}
	if end+1 >= len(content) {
		return true
	}
	next := content[end+1]
	return next != ' ' && next != '\t'
}

