package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationCompare(t *testing.T) {
	a := NewLocation(1, 4)
	b := NewLocation(1, 9)

	c, err := a.Compare(b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = b.Compare(a)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = a.Compare(NewLocation(1, 4))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}

func TestLocationCompareAcrossFiles(t *testing.T) {
	_, err := NewLocation(1, 4).Compare(NewLocation(2, 4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCrossFileComparison))

	assert.Panics(t, func() {
		NewLocation(1, 0).Before(NewLocation(2, 10))
	})
}

func TestNewLocationClampsNegativeOffset(t *testing.T) {
	assert.Equal(t, 0, NewLocation(0, -3).Offset)
}

func TestRangeContainsStrict(t *testing.T) {
	r := NewRange(NewLocation(3, 10), 5)
	require.Equal(t, 15, r.End())

	tests := []struct {
		name   string
		offset int
		want   bool
	}{
		{"before start", 9, false},
		{"at start", 10, false},
		{"just inside start", 11, true},
		{"middle", 12, true},
		{"just inside end", 14, true},
		{"at end", 15, false},
		{"after end", 16, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ContainsStrict(NewLocation(3, tt.offset)))
		})
	}

	assert.False(t, r.ContainsStrict(NewLocation(4, 12)), "other file is never contained")
}

func TestRangeEmpty(t *testing.T) {
	assert.True(t, NewRange(NewLocation(0, 2), 0).Empty())
	assert.True(t, NewRange(NewLocation(0, 2), -1).Empty())
	assert.False(t, NewRange(NewLocation(0, 2), 1).Empty())
}
