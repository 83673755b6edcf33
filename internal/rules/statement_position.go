package rules

import (
	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/pattern"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

const IDStatementPosition = "statement_position"

// else/catch glued to "}", after two or more blanks, or after a line break
// or tab.
const statementPositionExpr = `(?:\}|\s |[\n\t\r])(?P<at>else|catch)\b`

// StatementPositionRule wants else and catch on the line of the closing
// brace, one space after it.
type StatementPositionRule struct {
	base
	pattern *pattern.Pattern
}

// NewStatementPositionRule compiles the else/catch pattern.
func NewStatementPositionRule(sev diag.Severity) (*StatementPositionRule, error) {
	ps, err := compile(IDStatementPosition, statementPositionExpr)
	if err != nil {
		return nil, err
	}
	return &StatementPositionRule{
		base: newBase(Description{
			ID:          IDStatementPosition,
			Name:        "Statement Position",
			Summary:     "Else and catch should be on the same line as the preceding closing brace, one space after it",
			Kind:        diag.KindStatementPosition,
			NeedsSyntax: true,
			NonTriggering: []string{
				"} else if {",
				"} else {",
				"} catch {",
				"} else {\n}\n//}else",
			},
			Triggering: []string{
				"}else if {",
				"}  else {",
				"}\ncatch {",
				"}\n\t  catch {",
			},
		}, sev, "Else and catch must be on the same line and one space after previous declaration"),
		pattern: ps[0],
	}, nil
}

// Validate keeps only candidates the parser classified as keywords, which
// drops occurrences in comments, strings and identifiers. Without a
// classification index nothing can be confirmed and nothing is reported.
func (r *StatementPositionRule) Validate(file *source.File) []diag.Violation {
	if file.Syntax == nil {
		return nil
	}
	var keep []pattern.Match
	for _, m := range pattern.Find(file, r.pattern, 0) {
		if m.Tags.Has(syntax.TagKeyword) {
			keep = append(keep, m)
		}
	}
	return r.fromMatches(file, keep)
}
