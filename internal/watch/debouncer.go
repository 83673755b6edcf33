package watch

import (
	"sort"
	"sync"
	"time"

	"github.com/standardbeagle/stylecheck/internal/debug"
)

// Op is the kind of change seen for a path.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Batch is one quiet-period worth of changes, each list sorted. A path
// appears in exactly one list: the last event seen for it wins.
type Batch struct {
	Changed []string // created or written; re-lint these
	Removed []string // removed or renamed away; drop their results
}

func (b Batch) Len() int {
	return len(b.Changed) + len(b.Removed)
}

// Debouncer collects change events and hands them to a callback once no new
// event arrived for the debounce period.
type Debouncer struct {
	delay   time.Duration
	timer   *time.Timer
	pending map[string]Op
	closed  bool
	mu      sync.Mutex

	// held while a batch is delivered so Shutdown can wait for it
	flushMu sync.Mutex
	onFlush func(Batch)
}

// NewDebouncer creates a debouncer; debounceMs <= 0 uses 50ms.
func NewDebouncer(debounceMs int, onFlush func(Batch)) *Debouncer {
	if debounceMs <= 0 {
		debounceMs = 50
	}
	return &Debouncer{
		delay:   time.Duration(debounceMs) * time.Millisecond,
		pending: make(map[string]Op),
		onFlush: onFlush,
	}
}

// Add records an event for path and restarts the quiet period.
func (d *Debouncer) Add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.pending[path] = op

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)

	debug.LogWatch("queued %s %s (pending: %d)", op, path, len(d.pending))
}

// Pending returns the number of paths waiting for the next flush.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// SetDelay changes the quiet period for events added afterwards.
func (d *Debouncer) SetDelay(ms int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = time.Duration(ms) * time.Millisecond
}

// Flush delivers the pending batch now without waiting.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.flush()
}

func (d *Debouncer) flush() {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	events := d.pending
	d.pending = make(map[string]Op)
	d.mu.Unlock()

	if len(events) == 0 {
		return
	}

	batch := toBatch(events)
	debug.LogWatch("flushing %d changed, %d removed", len(batch.Changed), len(batch.Removed))
	if d.onFlush != nil {
		d.onFlush(batch)
	}
}

// Shutdown drops pending events and waits for an in-flight flush.
func (d *Debouncer) Shutdown() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]Op)
	d.mu.Unlock()

	d.flushMu.Lock()
	defer d.flushMu.Unlock()
}

func toBatch(events map[string]Op) Batch {
	var b Batch
	for path, op := range events {
		switch op {
		case OpRemove, OpRename:
			b.Removed = append(b.Removed, path)
		default:
			b.Changed = append(b.Changed, path)
		}
	}
	sort.Strings(b.Changed)
	sort.Strings(b.Removed)
	return b
}
