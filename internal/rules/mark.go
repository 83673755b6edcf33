package rules

import (
	"sort"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/pattern"
	"github.com/standardbeagle/stylecheck/internal/source"
)

const IDMark = "mark"

const markToken = `//MARK:`

// Each sub-pattern reports at the marker itself. A \r before \n counts as
// part of the line break.
var markExprs = []string{
	// \n\n\n//MARK:
	`\n[\t \r]*\n[\t \r]*\n[\t ]*(?P<at>` + markToken + `)`,
	// //MARK:\n\n\n
	`(?P<at>` + markToken + `)[^\n]*\n[\t \r]*\n[\t \r]*\n`,
	// let a = 1\n//MARK:
	`[^ \t\r\n][ \t]*\r?\n[\t ]*(?P<at>` + markToken + `)`,
	// //MARK:\nlet a = 1
	`(?P<at>` + markToken + `)[^\n]*\n[ \t\r]*[^ \t\r\n]`,
}

// MarkRule wants exactly one blank line around every //MARK: comment, except
// at the very start or end of a file.
type MarkRule struct {
	base
	patterns []*pattern.Pattern
}

// NewMarkRule compiles the marker patterns.
func NewMarkRule(sev diag.Severity) (*MarkRule, error) {
	ps, err := compile(IDMark, markExprs...)
	if err != nil {
		return nil, err
	}
	return &MarkRule{
		base: newBase(Description{
			ID:      IDMark,
			Name:    "Mark Spacing",
			Summary: "There should be exactly one empty line before and after //MARK:",
			Kind:    diag.KindMark,
			NonTriggering: []string{
				"let a = 1\n\n\t //MARK: Another var\n\n let b = 2",
				"//MARK: top\n\nlet a = 1",
				"let a = 1\n\n//MARK: bottom",
				"let a = 1\r\n\r\n//MARK: x\r\n\r\nlet b = 2",
			},
			Triggering: []string{
				"let a = 1\n\t //MARK: Another var\n let b = 2",
				"let a = 1\n\n\n\t //MARK: Another var\n\n let b = 2",
				"let a = 1\n\n//MARK: Another var\n\n\nlet b = 2",
				"let a = 1\n\n//MARK: Another var\nlet b = 2",
				"let a = 1\r\n//MARK: x\r\n\r\nlet b = 2",
				"let a = 1\r\n\r\n//MARK: x\r\n\r\n\r\nlet b = 2",
			},
		}, sev, "File should have 1 empty line before and after //MARK:"),
		patterns: ps,
	}, nil
}

// Validate unions the four sub-conditions; a marker that breaks more than
// one of them is reported once.
func (r *MarkRule) Validate(file *source.File) []diag.Violation {
	seen := make(map[int]struct{})
	var offsets []int
	for _, p := range r.patterns {
		for _, m := range pattern.Find(file, p, 0) {
			if _, dup := seen[m.Offset()]; dup {
				continue
			}
			seen[m.Offset()] = struct{}{}
			offsets = append(offsets, m.Offset())
		}
	}
	sort.Ints(offsets)

	out := make([]diag.Violation, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, r.violation(file, off))
	}
	return out
}
