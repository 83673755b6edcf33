// Package pattern runs regular expressions over raw source text and
// annotates each match with the classification at its reported start.
package pattern

import (
	"fmt"
	"regexp"

	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/syntax"
	"github.com/standardbeagle/stylecheck/internal/types"
)

// ReportGroup is the name of the capture group whose span is reported
// instead of the whole match, e.g. `\{ (?P<at>return)\b`.
const ReportGroup = "at"

// Pattern is a compiled expression plus the index of its report group.
type Pattern struct {
	re    *regexp.Regexp
	group int // -1 when the pattern has no report group
}

// Compile compiles expr. Empty expressions are rejected since they would
// match at every offset.
func Compile(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re, group: re.SubexpIndex(ReportGroup)}, nil
}

// MustCompile is Compile that panics on error, for package-level patterns.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("pattern: Compile(%q): %v", expr, err))
	}
	return p
}

func (p *Pattern) String() string {
	return p.re.String()
}

// Match is one pattern hit. Range is the reported span (the report group
// when the pattern has one, else the whole match); Full is the whole match.
// Tags is the classification at Range's start.
type Match struct {
	Range types.Range
	Full  types.Range
	Tags  syntax.TagSet
}

// Offset is the reported start offset.
func (m Match) Offset() int {
	return m.Range.Offset
}

// Find returns every non-overlapping match of p in file, ordered by start
// offset. Matches whose tags intersect exclude are dropped; a zero exclude
// set keeps everything. After an empty match the search resumes one
// position later, so empty patterns cannot loop.
func Find(file *source.File, p *Pattern, exclude syntax.TagSet) []Match {
	locs := p.re.FindAllSubmatchIndex(file.Content, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		full := types.NewRange(file.Location(loc[0]), loc[1]-loc[0])
		at := full
		if p.group > 0 && loc[2*p.group] >= 0 {
			start, end := loc[2*p.group], loc[2*p.group+1]
			at = types.NewRange(file.Location(start), end-start)
		}
		tags := file.TagsAt(at.Offset)
		if !exclude.Empty() && tags.Intersects(exclude) {
			continue
		}
		out = append(out, Match{Range: at, Full: full, Tags: tags})
	}
	return out
}

// Offsets extracts reported start offsets, preserving order.
func Offsets(ms []Match) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.Range.Offset
	}
	return out
}

// Subtract returns the matches of all whose reported range does not appear
// in remove. Order of all is preserved.
func Subtract(all, remove []Match) []Match {
	if len(remove) == 0 {
		return all
	}
	drop := make(map[types.Range]struct{}, len(remove))
	for _, m := range remove {
		drop[m.Range] = struct{}{}
	}
	var out []Match
	for _, m := range all {
		if _, ok := drop[m.Range]; !ok {
			out = append(out, m)
		}
	}
	return out
}
