// Package rules holds the style rule catalog and the explicit registry the
// lint driver runs. Every rule is a pure function of one source.File.
package rules

import (
	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/pattern"
	"github.com/standardbeagle/stylecheck/internal/source"
)

// Rule checks one file. Implementations hold no mutable state; Validate may
// be called concurrently on different files and returns violations ordered
// by offset.
type Rule interface {
	ID() string
	Description() Description
	Severity() diag.Severity
	Validate(file *source.File) []diag.Violation
}

// Description documents a rule for help output and the example harness.
// NonTriggering inputs must yield no violations; Triggering inputs at least
// one.
type Description struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Summary       string    `json:"summary"`
	Kind          diag.Kind `json:"kind"`
	NeedsSyntax   bool      `json:"needs_syntax,omitempty"`
	NeedsTree     bool      `json:"needs_structure,omitempty"`
	NonTriggering []string  `json:"non_triggering"`
	Triggering    []string  `json:"triggering"`
}

// base carries what every rule shares.
type base struct {
	desc     Description
	severity diag.Severity
	reason   string
}

func (b *base) ID() string {
	return b.desc.ID
}

func (b *base) Description() Description {
	return b.desc
}

func (b *base) Severity() diag.Severity {
	return b.severity
}

func (b *base) violation(file *source.File, offset int) diag.Violation {
	return diag.Violation{
		Kind:     b.desc.Kind,
		RuleID:   b.desc.ID,
		Location: file.Location(offset),
		Severity: b.severity,
		Reason:   b.reason,
	}
}

func (b *base) fromMatches(file *source.File, ms []pattern.Match) []diag.Violation {
	if len(ms) == 0 {
		return nil
	}
	out := make([]diag.Violation, 0, len(ms))
	for _, m := range ms {
		out = append(out, b.violation(file, m.Offset()))
	}
	return out
}

func newBase(desc Description, sev diag.Severity, reason string) base {
	if sev == 0 {
		sev = diag.SevWarning
	}
	return base{desc: desc, severity: sev, reason: reason}
}

// compile builds every pattern of a rule, naming the rule and the pattern
// in the error.
func compile(ruleID string, exprs ...string) ([]*pattern.Pattern, error) {
	out := make([]*pattern.Pattern, len(exprs))
	for i, expr := range exprs {
		p, err := pattern.Compile(expr)
		if err != nil {
			return nil, errors.NewRuleError(ruleID, err).WithPattern(expr)
		}
		out[i] = p
	}
	return out, nil
}
