// Package watch re-runs a callback when source files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher delivers change notifications for a fixed set of files.
//
// fsnotify watches directories, so editors that save by writing a temporary
// file and renaming it over the original are still seen.
type Watcher struct {
	fs    *fsnotify.Watcher
	files map[string]string // cleaned absolute path -> path as given
}

// New starts watching the directories holding paths. Events are buffered
// from this point on, so changes made before Run is called are not lost.
func New(paths []string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{fs: fs, files: make(map[string]string, len(paths))}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.files[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run calls fn once per changed file until ctx is done. Changes arriving
// within debounce of each other are coalesced; fn then runs for each file
// in path order. A non-positive debounce disables coalescing.
//
// Run closes the watcher before returning. It returns nil when ctx ends and
// an error if fsnotify reports one.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, fn func(path string)) error {
	defer w.Close()

	pending := make(map[string]bool)
	var fire <-chan time.Time

	flush := func() {
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		slices.Sort(names)
		clear(pending)
		for _, name := range names {
			fn(w.files[name])
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if _, watched := w.files[name]; !watched {
				continue
			}
			pending[name] = true
			if debounce <= 0 {
				flush()
				continue
			}
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			flush()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

// Close releases the watcher. Run returns immediately on a closed watcher,
// and closing twice is harmless.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run watches paths and calls fn for every changed file until ctx is done.
func Run(ctx context.Context, paths []string, debounce time.Duration, fn func(path string)) error {
	w, err := New(paths)
	if err != nil {
		return err
	}
	return w.Run(ctx, debounce, fn)
}
