package rules

import (
	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/pattern"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

const IDReturnPosition = "return_position"

const (
	returnExpr = `\b(?P<at>return)\b`

	// "{ return", the line right after a "{" or ":" line, or one blank line
	// after anything else.
	spaceAfterBrace        = `\{ `
	nextLineAfterBrace     = `[{:][^\n}]*\n[\t ]*`
	oneEmptyLineIfNotBrace = `[^\s{:][\t ]*\n[\t ]*\n[\t ]*`

	correctReturnExpr = `(?:` + spaceAfterBrace + `|` + nextLineAfterBrace + `|` +
		oneEmptyLineIfNotBrace + `)(?P<at>return)\b`
)

// ReturnPositionRule checks that return statements are either the first
// statement of a block or separated from preceding code by one blank line.
type ReturnPositionRule struct {
	base
	all     *pattern.Pattern
	correct *pattern.Pattern
}

// NewReturnPositionRule compiles both the occurrence and the placement
// patterns.
func NewReturnPositionRule(sev diag.Severity) (*ReturnPositionRule, error) {
	ps, err := compile(IDReturnPosition, returnExpr, correctReturnExpr)
	if err != nil {
		return nil, err
	}
	return &ReturnPositionRule{
		base: newBase(Description{
			ID:      IDReturnPosition,
			Name:    "Return Position",
			Summary: "Return statements should open their block or follow an empty line",
			Kind:    diag.KindReturnPosition,
			NonTriggering: []string{
				"func abc() {\nreturn}",
				"func abc() -> Int {\nlet a = 1\n\n\treturn a}",
				"func abc() -> Int {\nlet a = 1\n  \t\n\treturn a}",
				"switch 1 {\ncase 1:\n return true\ndefault:\n break }",
				"func abc() -> Int { return 1 }",
				"func abc() {\nlet a = 1 // return\n}",
			},
			Triggering: []string{
				"func abc() {\n\nreturn}",
				"func abc() -> Int {\nlet a = 1\n\treturn a}",
				"func abc() -> Int {\nlet a = 1\n    return a}",
			},
		}, sev, "Return statement must be placed correctly"),
		all:     ps[0],
		correct: ps[1],
	}, nil
}

// Validate reports every return outside comments and strings that the
// placement pattern does not account for. Both pattern sets report the span
// of the keyword itself, so they are compared by range.
func (r *ReturnPositionRule) Validate(file *source.File) []diag.Violation {
	all := pattern.Find(file, r.all, syntax.CommentsAndStrings)
	if len(all) == 0 {
		return nil
	}
	correct := pattern.Find(file, r.correct, syntax.CommentsAndStrings)
	return r.fromMatches(file, pattern.Subtract(all, correct))
}
