// Package watcher provides debounced filesystem watching for gantry
// workspace directories.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait after the last file event before
// invoking the callback, so a burst of writes lands as one
// notification.
const DefaultDebounce = 100 * time.Millisecond

// Watcher coalesces filesystem events into debounced callback
// invocations.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()
}

// New watches the given paths with the default debounce window.
func New(paths []string, onChange func()) (*Watcher, error) {
	return NewDebounced(paths, DefaultDebounce, onChange)
}

// NewDebounced watches the given paths with a caller-chosen debounce
// window. The dispatch worker passes a wider window than the TUI so a
// burst of trigger writes coalesces into one drain.
func NewDebounced(paths []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fsw: fsw, debounce: debounce, onChange: onChange}, nil
}

// Run blocks until the context is canceled, invoking the callback once
// per debounced burst of events. Errors from the underlying watcher go
// to errFn when one is given.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	// The pending timer lives in this goroutine: events reset it,
	// expiry fires the callback. No locking needed.
	pending := time.NewTimer(w.debounce)
	if !pending.Stop() {
		<-pending.C
	}

	for {
		select {
		case <-ctx.Done():
			pending.Stop()
			return

		case <-pending.C:
			w.onChange()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev.Op) {
				continue
			}
			if !pending.Stop() {
				select {
				case <-pending.C:
				default:
				}
			}
			pending.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant filters for operations that change workspace content.
// Chmod-only events are noise.
func relevant(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
