package rules

import (
	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/pattern"
	"github.com/standardbeagle/stylecheck/internal/source"
)

const IDOpeningBrace = "opening_brace"

// A brace preceded by anything but a single space, or by a space that itself
// follows whitespace or "(".
const openingBraceExpr = `(?:[^( ]|[\s(] )(?P<at>\{)`

// OpeningBraceRule wants "{" one space after its declaration, on the same
// line.
type OpeningBraceRule struct {
	base
	pattern *pattern.Pattern
}

// NewOpeningBraceRule compiles the brace pattern.
func NewOpeningBraceRule(sev diag.Severity) (*OpeningBraceRule, error) {
	ps, err := compile(IDOpeningBrace, openingBraceExpr)
	if err != nil {
		return nil, err
	}
	return &OpeningBraceRule{
		base: newBase(Description{
			ID:      IDOpeningBrace,
			Name:    "Opening Brace Spacing",
			Summary: "Opening braces should be preceded by a single space and on the same line as the declaration",
			Kind:    diag.KindOpeningBrace,
			NonTriggering: []string{
				"func abc() {\n}",
				"[].map() { $0 }",
				"[].map({ })",
			},
			Triggering: []string{
				"func abc(){\n}",
				"func abc()\n\t{ }",
				"[].map(){ $0 }",
				"[].map( { } )",
			},
		}, sev, "One space before opening brace and on the same line as declaration"),
		pattern: ps[0],
	}, nil
}

// Validate reports every badly placed "{" at the brace itself.
func (r *OpeningBraceRule) Validate(file *source.File) []diag.Violation {
	return r.fromMatches(file, pattern.Find(file, r.pattern, 0))
}
