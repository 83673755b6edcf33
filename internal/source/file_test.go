package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/structure"
	"github.com/standardbeagle/stylecheck/internal/syntax"
)

func TestPosition(t *testing.T) {
	f := NewString("let a = 1\nlet b = 2\n\nx")

	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{9, 1, 10}, // the newline itself
		{10, 2, 1},
		{20, 3, 1},
		{21, 4, 1},
		{22, 4, 2},
		{99, 4, 2},
		{-3, 1, 1},
	}
	for _, tt := range tests {
		line, col := f.Position(tt.offset)
		assert.Equal(t, tt.line, line, "line for offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "col for offset %d", tt.offset)
	}
}

func TestLine(t *testing.T) {
	f := NewString("first\r\nsecond\n\nlast")
	assert.Equal(t, "first", f.Line(1))
	assert.Equal(t, "second", f.Line(2))
	assert.Equal(t, "", f.Line(3))
	assert.Equal(t, "last", f.Line(4))
	assert.Equal(t, "", f.Line(5))
	assert.Equal(t, "", f.Line(0))
}

func TestWithParseDoesNotMutate(t *testing.T) {
	f := NewString("let a = 1")
	idx := syntax.NewIndex([]syntax.Token{{Tag: syntax.TagKeyword, Offset: 0, Length: 3}})
	parsed := f.WithParse(idx, structure.NewTree(f.Len()), nil)

	assert.Nil(t, f.Syntax)
	assert.True(t, f.TagsAt(0).Empty())
	assert.True(t, parsed.TagsAt(0).Has(syntax.TagKeyword))
	assert.NotNil(t, parsed.Structure)
}

func TestLoadStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.swift")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "let a = 1"...), 0o600))

	f, err := Load(3, path)
	require.NoError(t, err)
	assert.Equal(t, "let a = 1", f.Text())
	assert.EqualValues(t, 3, f.ID)
	assert.Equal(t, path+":1:5", f.PositionString(4))

	_, err = Load(0, filepath.Join(t.TempDir(), "missing.swift"))
	assert.Error(t, err)
}
