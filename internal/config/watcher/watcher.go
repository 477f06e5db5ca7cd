// Package watcher reports changes to a configuration file for live reload.
//
// The watcher subscribes to the file's directory rather than the file, so
// editors that save by writing a temp file and renaming it are still seen.
// Bursts of events for the file are debounced into a single callback.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/flyout/internal/logging"
)

// Operation is the kind of change observed.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates the file was created, including by rename onto it.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is a debounced change to the watched file.
type Event struct {
	Path string
	Op   Operation
	Time time.Time
}

// Handler is called once per debounced burst of changes.
type Handler func(event Event)

// Watcher monitors one file.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	handler Handler
	log     *logging.Logger

	debounce time.Duration

	mu      sync.Mutex
	pending *Event
	timer   *time.Timer
	closed  bool

	wg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before the handler runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New starts watching path. The file need not exist yet, but its directory must.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		path:     absPath,
		handler:  handler,
		log:      logging.Null(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("watcher")

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op, ok := convertOp(ev.Op)
			if !ok {
				continue
			}
			w.queue(Event{Path: w.path, Op: op, Time: time.Now()})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

// convertOp maps fsnotify operations. Chmod is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// coalesce merges a new operation into a pending one:
//   - remove wins over everything
//   - create is kept over a later write
//   - otherwise the latest operation wins
func coalesce(pending, next Operation) Operation {
	switch {
	case next == OpRemove:
		return OpRemove
	case next == OpWrite && pending == OpCreate:
		return OpCreate
	default:
		return next
	}
}

func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		ev.Op = coalesce(w.pending.Op, ev.Op)
	}
	w.pending = &ev

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	ev := w.pending
	w.pending = nil
	closed := w.closed
	w.mu.Unlock()

	if ev == nil || closed {
		return
	}
	w.log.Debug("%s %s", ev.Op, ev.Path)
	w.safeCall(*ev)
}

// safeCall keeps a panicking handler from killing the timer goroutine.
func (w *Watcher) safeCall(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("watch handler panicked: %v", r)
		}
	}()
	w.handler(ev)
}
