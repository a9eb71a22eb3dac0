package state

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates cached state (env-cache, resolved toolsets) whenever
// one of a config's watch_files() changes on disk — the "reset()" hook of
// §9's open question about cache invalidation.
type Watcher struct {
	fsw *fsnotify.Watcher
	On  func(path string)
}

// NewWatcher starts watching paths; On is invoked (from the caller's own
// goroutine, via Wait) for every write/create/remove event on a watched
// path.
func NewWatcher(paths []string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
	}
	return &Watcher{fsw: fsw, On: onChange}, nil
}

// Wait blocks, dispatching every filesystem event to On until the watcher
// is closed (its Events channel closes) or an unrecoverable watcher error
// arrives on Errors.
func (w *Watcher) Wait() error {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.On(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }
