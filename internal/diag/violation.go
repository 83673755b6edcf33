package diag

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/stylecheck/internal/types"
)

// Kind names the category of style problem a violation reports.
type Kind string

const (
	KindMark               Kind = "Mark Empty Lines"
	KindOpeningBrace       Kind = "Opening Brace"
	KindOperatorWhitespace Kind = "Operator Whitespace"
	KindReturnPosition     Kind = "Return Position"
	KindStatementPosition  Kind = "Statement Position"
)

// Violation is one reported problem. Values are never modified after
// construction.
type Violation struct {
	Kind     Kind           `json:"kind"`
	RuleID   string         `json:"rule"`
	Location types.Location `json:"location"`
	Severity Severity       `json:"severity"`
	Reason   string         `json:"reason"`
}

// Offset is shorthand for v.Location.Offset.
func (v Violation) Offset() int {
	return v.Location.Offset
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s (%s)", v.Location, v.Severity, v.Reason, v.RuleID)
}

// Less orders by offset, then rule ID. Both violations must belong to the
// same file.
func Less(a, b Violation) bool {
	if a.Location.Offset != b.Location.Offset {
		return a.Location.Before(b.Location)
	}
	return a.RuleID < b.RuleID
}

// Sort orders vs by (offset, rule ID), keeping the relative order of ties.
func Sort(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		return Less(vs[i], vs[j])
	})
}

// MaxSeverity returns the highest severity in vs, or zero when vs is empty.
func MaxSeverity(vs []Violation) Severity {
	var maxSev Severity
	for _, v := range vs {
		if v.Severity > maxSev {
			maxSev = v.Severity
		}
	}
	return maxSev
}

// Counts tallies violations by severity.
func Counts(vs []Violation) (warnings, errors int) {
	for _, v := range vs {
		switch v.Severity {
		case SevWarning:
			warnings++
		case SevError:
			errors++
		}
	}
	return warnings, errors
}
