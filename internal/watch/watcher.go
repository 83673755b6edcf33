// Package watch re-lints files as they change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/stylecheck/internal/cache"
	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/lint"
)

// Options configures a Watcher.
type Options struct {
	DebounceMs int

	// OnResult receives the re-lint of each batch. Removed files have no
	// FileResult; they are listed in the batch.
	OnResult func(res *lint.Result, batch Batch)
	// OnError receives watcher and lint failures; nil logs them.
	OnError func(err error)
}

// Watcher monitors directories and re-lints changed files through a Runner.
// The runner's filter decides which paths are of interest.
type Watcher struct {
	watcher   *fsnotify.Watcher
	runner    *lint.Runner
	filter    *lint.Filter
	cache     *cache.ResultCache
	debouncer *Debouncer
	opts      Options
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once

	eventsProcessed int64
	errorCount      int64
	lastEventTime   time.Time
	statsMu         sync.RWMutex
}

// New creates a watcher. c may be nil; when set, removed files are dropped
// from it.
func New(runner *lint.Runner, c *cache.ResultCache, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher: fsw,
		runner:  runner,
		filter:  runner.Filter(),
		cache:   c,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
	}
	w.debouncer = NewDebouncer(opts.DebounceMs, w.handleBatch)
	return w, nil
}

// Start adds watches below each root and begins processing events.
func (w *Watcher) Start(roots ...string) error {
	for _, root := range roots {
		debug.LogWatch("starting file watcher for directory: %s", root)
		if err := w.addWatches(root); err != nil {
			return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
		}
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop cancels in-flight linting and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.cancel()
		w.debouncer.Shutdown()
		err = w.watcher.Close()
		w.wg.Wait()
		debug.LogWatch("file watcher stopped")
	})
	return err
}

// Flush processes pending events immediately.
func (w *Watcher) Flush() {
	w.debouncer.Flush()
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.filter.Excluded(w.filter.Rel(path)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(fmt.Errorf("file watcher: %w", err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	debug.LogWatch("received %v for %s", event.Op, path)

	info, err := os.Stat(path)
	if err != nil {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			if w.wanted(path) {
				w.debouncer.Add(path, opFor(event))
			}
		}
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) && !w.filter.Excluded(w.filter.Rel(path)) {
			if err := w.addWatches(path); err != nil {
				log.Printf("Warning: failed to add watch for new directory %s: %v", path, err)
			}
		}
		return
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.filter.Accept(path) {
		debug.LogWatch("ignoring %s", path)
		return
	}
	w.debouncer.Add(path, opFor(event))
}

// wanted applies the pattern part of the filter to a path that no longer
// exists.
func (w *Watcher) wanted(path string) bool {
	rel := w.filter.Rel(path)
	if w.filter.Excluded(rel) || !w.filter.Included(rel) {
		return false
	}
	return w.filter.Supported == nil || w.filter.Supported(path)
}

func opFor(event fsnotify.Event) Op {
	switch {
	case event.Has(fsnotify.Remove):
		return OpRemove
	case event.Has(fsnotify.Rename):
		return OpRename
	case event.Has(fsnotify.Create):
		return OpCreate
	}
	return OpWrite
}

func (w *Watcher) handleBatch(b Batch) {
	start := time.Now()

	if w.cache != nil {
		for _, path := range b.Removed {
			w.cache.Invalidate(path)
		}
	}

	res := &lint.Result{}
	if len(b.Changed) > 0 {
		var err error
		res, err = w.runner.LintPaths(w.ctx, b.Changed)
		if err != nil {
			if w.ctx.Err() != nil {
				return
			}
			w.reportError(err)
			return
		}
	}
	res.Duration = time.Since(start)
	w.incrementStats(int64(b.Len()), 0)

	if w.opts.OnResult != nil {
		w.opts.OnResult(res, b)
	}
}

func (w *Watcher) reportError(err error) {
	w.incrementStats(0, 1)
	if w.opts.OnError != nil {
		w.opts.OnError(err)
		return
	}
	log.Printf("watch: %v", err)
}

func (w *Watcher) incrementStats(events int64, errors int64) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	w.eventsProcessed += events
	w.errorCount += errors
	w.lastEventTime = time.Now()
}

// Stats returns current watch statistics
func (w *Watcher) Stats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()

	return Stats{
		EventsProcessed: w.eventsProcessed,
		ErrorCount:      w.errorCount,
		LastEventTime:   w.lastEventTime,
		IsActive:        w.ctx.Err() == nil,
	}
}

// Stats contains statistics about a watch session
type Stats struct {
	EventsProcessed int64
	ErrorCount      int64
	LastEventTime   time.Time
	IsActive        bool
}
