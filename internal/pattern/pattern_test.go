package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

func TestCompileErrors(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)

	_, err = Compile("(unclosed")
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile("[z-a]") })
}

func TestFindWholeMatch(t *testing.T) {
	f := source.NewString("foo bar foo")
	ms := Find(f, MustCompile(`foo`), 0)

	require.Len(t, ms, 2)
	assert.Equal(t, []int{0, 8}, Offsets(ms))
	assert.Equal(t, 3, ms[0].Range.Length)
	assert.Equal(t, ms[0].Range, ms[0].Full)
	assert.True(t, ms[0].Tags.Empty(), "no classifier means no tags")
}

func TestFindReportGroup(t *testing.T) {
	f := source.NewString("x {\n{ return 1 }")
	ms := Find(f, MustCompile(`\{ (?P<at>return)\b`), 0)

	require.Len(t, ms, 1)
	assert.Equal(t, 6, ms[0].Offset())
	assert.Equal(t, 6, ms[0].Range.Length)
	assert.Equal(t, 4, ms[0].Full.Offset)
	assert.Equal(t, 8, ms[0].Full.Length)
}

func TestFindNonOverlapping(t *testing.T) {
	f := source.NewString("aaaa")
	ms := Find(f, MustCompile(`aa`), 0)
	assert.Equal(t, []int{0, 2}, Offsets(ms))
}

func TestFindZeroLengthMatchesTerminate(t *testing.T) {
	f := source.NewString("abc")
	ms := Find(f, MustCompile(`x*`), 0)
	assert.Len(t, ms, 4)
	for _, m := range ms {
		assert.True(t, m.Range.Empty())
	}
}

func TestFindExclusion(t *testing.T) {
	// return 1 // return
	f := source.NewString("return 1 // return").WithParse(syntax.NewIndex([]syntax.Token{
		{Tag: syntax.TagKeyword, Offset: 0, Length: 6},
		{Tag: syntax.TagNumber, Offset: 7, Length: 1},
		{Tag: syntax.TagComment, Offset: 9, Length: 9},
	}), nil, nil)

	p := MustCompile(`\breturn\b`)
	assert.Equal(t, []int{0, 12}, Offsets(Find(f, p, 0)))

	kept := Find(f, p, syntax.CommentsAndStrings)
	require.Len(t, kept, 1)
	assert.Equal(t, 0, kept[0].Offset())
	assert.True(t, kept[0].Tags.Has(syntax.TagKeyword))
}

func TestSubtract(t *testing.T) {
	f := source.NewString("ab ab ab")
	all := Find(f, MustCompile(`(?P<at>ab)`), 0)
	some := Find(f, MustCompile(` (?P<at>ab)`), 0)

	rest := Subtract(all, some)
	assert.Equal(t, []int{0}, Offsets(rest))
	assert.Equal(t, all, Subtract(all, nil))
}
