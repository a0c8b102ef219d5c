// Package watch implements the filesystem-watch side of the Rebuild
// Driver's concurrency model (spec §5): it dispatches a debounced
// rebuild whenever a watched markup file changes. Grounded on the
// debounce-timer pattern in
// other_examples/678aa4de_bennypowers-cem__generate-session.go.go's
// WatchSession, adapted from per-file debouncing to a single coalescing
// timer: a burst of events on any files under the root yields one
// callback, carrying the path of the last event seen.
package watch

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/daaku/dxcss/internal/telemetry"
)

// Watcher wraps an fsnotify.Watcher and coalesces bursts of change
// events into a single debounced callback.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)

	mu    sync.Mutex
	timer *time.Timer
	last  string
}

// New creates a Watcher over root (recursively) and its subdirectories,
// invoking onChange no sooner than debounce after the last observed
// write/create event, per spec §5's default 250ms window.
func New(root string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, debounce: debounce, onChange: onChange}

	if err := filepathWalkDirs(root, fsw.Add); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes fsnotify events until stop is closed.
func (w *Watcher) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			telemetry.L().Warnw("watch error", "error", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		path := w.last
		w.mu.Unlock()
		w.onChange(path)
	})
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func filepathWalkDirs(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return add(path)
		}
		return nil
	})
}
