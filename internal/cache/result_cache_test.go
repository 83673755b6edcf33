package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/types"
)

func violation(file types.FileID, offset int) diag.Violation {
	return diag.Violation{
		Kind:     diag.KindOpeningBrace,
		RuleID:   "opening_brace",
		Location: types.NewLocation(file, offset),
		Severity: diag.SevWarning,
		Reason:   "Opening brace after a space and on same line as declaration",
	}
}

func TestResultCache_HitAndMiss(t *testing.T) {
	c := New(0)
	content := []byte("func f(){}")

	_, ok := c.Get("a.swift", content, "fp", 1)
	assert.False(t, ok)

	c.Put("a.swift", content, "fp", []diag.Violation{violation(1, 8)}, nil)

	hit, ok := c.Get("a.swift", content, "fp", 7)
	require.True(t, ok)
	assert.NoError(t, hit.ParseErr)
	vs := hit.Violations
	require.Len(t, vs, 1)
	assert.Equal(t, types.FileID(7), vs[0].Location.File, "violations are relabelled with the new file ID")
	assert.Equal(t, 8, vs[0].Offset())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestResultCache_KeyedByContentAndFingerprint(t *testing.T) {
	c := New(0)
	c.Put("a.swift", []byte("v1"), "mark=warning", nil, nil)

	_, ok := c.Get("a.swift", []byte("v2"), "mark=warning", 1)
	assert.False(t, ok, "content changed")
	_, ok = c.Get("a.swift", []byte("v1"), "mark=error", 1)
	assert.False(t, ok, "ruleset changed")
	_, ok = c.Get("a.swift", []byte("v1"), "mark=warning", 1)
	assert.True(t, ok)
}

func TestResultCache_ParseErrorIsCached(t *testing.T) {
	c := New(0)
	perr := errors.New("bad input")
	c.Put("a.swift", []byte("x"), "fp", nil, perr)

	hit, ok := c.Get("a.swift", []byte("x"), "fp", 1)
	require.True(t, ok)
	assert.Equal(t, perr, hit.ParseErr)
}

func TestResultCache_CopiesSlices(t *testing.T) {
	c := New(0)
	vs := []diag.Violation{violation(1, 3)}
	c.Put("a.swift", []byte("x"), "fp", vs, nil)
	vs[0].Reason = "mutated"

	hit, ok := c.Get("a.swift", []byte("x"), "fp", 1)
	require.True(t, ok)
	got := hit.Violations
	assert.NotEqual(t, "mutated", got[0].Reason)
	got[0].Reason = "mutated again"

	again, _ := c.Get("a.swift", []byte("x"), "fp", 1)
	assert.NotEqual(t, "mutated again", again.Violations[0].Reason)
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Put("a", []byte("a"), "fp", nil, nil)
	c.Put("b", []byte("b"), "fp", nil, nil)
	_, ok := c.Get("a", []byte("a"), "fp", 1) // a is now newer than b
	require.True(t, ok)

	c.Put("c", []byte("c"), "fp", nil, nil)

	_, ok = c.Get("b", []byte("b"), "fp", 1)
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a", []byte("a"), "fp", 1)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Stats().Entries)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestResultCache_InvalidateAndClear(t *testing.T) {
	c := New(0)
	c.Put("a", []byte("a"), "fp", nil, nil)
	c.Put("a", []byte("a2"), "fp", nil, nil)
	assert.Equal(t, 1, c.Stats().Entries, "replacing does not grow the cache")

	c.Invalidate("a")
	c.Invalidate("a")
	assert.Equal(t, 0, c.Stats().Entries)

	c.Put("b", []byte("b"), "fp", nil, nil)
	c.Clear()
	_, ok := c.Get("b", []byte("b"), "fp", 1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestResultCache_Concurrent(t *testing.T) {
	c := New(64)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				path := fmt.Sprintf("f%d.swift", i%32)
				content := []byte(path)
				c.Put(path, content, "fp", []diag.Violation{violation(1, i)}, nil)
				c.Get(path, content, "fp", types.FileID(w))
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Stats().Entries, 64)
}
