// Package cache keeps per-file lint results so unchanged files are not
// re-parsed and re-checked, e.g. between watch mode runs.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/types"
)

const DefaultMaxEntries = 4096

// Entry is one cached result. A hit requires both the content hash and the
// ruleset fingerprint to match.
type Entry struct {
	ContentHash uint64
	Fingerprint string
	Violations  []diag.Violation
	ParseErr    error

	lastUsed int64 // access tick, atomic
}

// ResultCache is a path-keyed, lock-free result store bounded by
// maxEntries; the least recently used entry is evicted first.
type ResultCache struct {
	entries sync.Map // map[string]*Entry

	maxEntries int64

	tick      int64
	count     int64
	hits      int64
	misses    int64
	evictions int64

	createdAt time.Time
}

// New creates a cache holding at most maxEntries files; zero or less picks
// DefaultMaxEntries.
func New(maxEntries int) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ResultCache{maxEntries: int64(maxEntries), createdAt: time.Now()}
}

// Hash is the content key used by the cache.
func Hash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Hit is what a lookup hands back.
type Hit struct {
	Violations []diag.Violation
	ParseErr   error
}

// Get returns the cached result for path when content and fingerprint are
// unchanged. The violations are a copy relabelled with file so the caller
// may hand them out as its own.
func (c *ResultCache) Get(path string, content []byte, fingerprint string, file types.FileID) (Hit, bool) {
	v, ok := c.entries.Load(path)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return Hit{}, false
	}
	e := v.(*Entry)
	if e.ContentHash != Hash(content) || e.Fingerprint != fingerprint {
		atomic.AddInt64(&c.misses, 1)
		return Hit{}, false
	}
	atomic.StoreInt64(&e.lastUsed, atomic.AddInt64(&c.tick, 1))
	atomic.AddInt64(&c.hits, 1)

	out := make([]diag.Violation, len(e.Violations))
	copy(out, e.Violations)
	for i := range out {
		out[i].Location.File = file
	}
	return Hit{Violations: out, ParseErr: e.ParseErr}, true
}

// Put stores the result for path, replacing any previous entry.
func (c *ResultCache) Put(path string, content []byte, fingerprint string, vs []diag.Violation, parseErr error) {
	stored := make([]diag.Violation, len(vs))
	copy(stored, vs)
	e := &Entry{
		ContentHash: Hash(content),
		Fingerprint: fingerprint,
		Violations:  stored,
		ParseErr:    parseErr,
		lastUsed:    atomic.AddInt64(&c.tick, 1),
	}
	if _, loaded := c.entries.Swap(path, e); loaded {
		return
	}
	atomic.AddInt64(&c.count, 1)
	for atomic.LoadInt64(&c.count) > c.maxEntries {
		if !c.evictOldest() {
			break
		}
	}
}

// Invalidate drops the entry for path, e.g. after the file was deleted.
func (c *ResultCache) Invalidate(path string) {
	if _, loaded := c.entries.LoadAndDelete(path); loaded {
		atomic.AddInt64(&c.count, -1)
	}
}

// evictOldest reports false when there was nothing left to evict.
func (c *ResultCache) evictOldest() bool {
	var oldestKey interface{}
	var oldest int64 = -1

	c.entries.Range(func(key, value interface{}) bool {
		used := atomic.LoadInt64(&value.(*Entry).lastUsed)
		if oldest < 0 || used < oldest {
			oldest = used
			oldestKey = key
		}
		return true
	})

	if oldestKey == nil {
		return false
	}
	// another writer may have removed it first; the caller re-checks count
	if _, loaded := c.entries.LoadAndDelete(oldestKey); loaded {
		atomic.AddInt64(&c.count, -1)
		atomic.AddInt64(&c.evictions, 1)
	}
	return true
}

// Clear removes all entries and resets statistics.
func (c *ResultCache) Clear() {
	c.entries.Range(func(key, _ interface{}) bool {
		c.entries.Delete(key)
		return true
	})
	atomic.StoreInt64(&c.count, 0)
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)
}

// Stats holds cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	HitRate   float64
	Uptime    time.Duration
}

// Stats returns cache statistics
func (c *ResultCache) Stats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)

	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: atomic.LoadInt64(&c.evictions),
		Entries:   int(atomic.LoadInt64(&c.count)),
		HitRate:   hitRate,
		Uptime:    time.Since(c.createdAt),
	}
}
