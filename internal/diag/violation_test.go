package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/types"
)

func v(offset int, rule string, sev Severity) Violation {
	return Violation{RuleID: rule, Location: types.NewLocation(1, offset), Severity: sev}
}

func TestSortOrdersByOffsetThenRule(t *testing.T) {
	vs := []Violation{
		v(10, "opening_brace", SevWarning),
		v(3, "statement_position", SevWarning),
		v(10, "mark", SevError),
		v(3, "mark", SevWarning),
	}
	Sort(vs)

	got := make([]string, len(vs))
	for i, x := range vs {
		got[i] = x.RuleID
	}
	assert.Equal(t, []string{"mark", "statement_position", "mark", "opening_brace"}, got)
	assert.Equal(t, 3, vs[0].Offset())
	assert.Equal(t, 10, vs[3].Offset())
}

func TestSortPanicsAcrossFiles(t *testing.T) {
	vs := []Violation{
		{RuleID: "a", Location: types.NewLocation(1, 5)},
		{RuleID: "a", Location: types.NewLocation(2, 3)},
	}
	assert.Panics(t, func() { Sort(vs) })
}

func TestSeverity(t *testing.T) {
	assert.True(t, SevWarning < SevError)

	s, err := ParseSeverity("Error")
	require.NoError(t, err)
	assert.Equal(t, SevError, s)

	_, err = ParseSeverity("fatal")
	assert.Error(t, err)

	b, err := json.Marshal(struct {
		S Severity `json:"s"`
	}{SevWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"warning"}`, string(b))
}

func TestMaxSeverityAndCounts(t *testing.T) {
	assert.Equal(t, Severity(0), MaxSeverity(nil))

	vs := []Violation{v(1, "a", SevWarning), v(2, "b", SevError), v(3, "c", SevWarning)}
	assert.Equal(t, SevError, MaxSeverity(vs))

	w, e := Counts(vs)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, e)
}
