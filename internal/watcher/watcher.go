// Package watcher reports batches of changed document files under a
// directory tree.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/docoutline/internal/parser"
)

const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Include  []string
	Exclude  []string
	Debounce time.Duration
}

// Watcher watches a directory recursively and invokes a callback with the
// files that changed once events have been quiet for the debounce period.
// Only files with a supported document extension are reported.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	filter   *Filter
	debounce time.Duration
	log      *slog.Logger
	callback func(files []string)

	mu          sync.Mutex
	accumulated map[string]bool
	timer       *time.Timer

	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher rooted at dir.
func New(dir string, opts Options, log *slog.Logger) (*Watcher, error) {
	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	w := &Watcher{
		fsw:         fsw,
		root:        root,
		filter:      filter,
		debounce:    opts.Debounce,
		log:         log,
		accumulated: make(map[string]bool),
		done:        make(chan struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string { return w.root }

// Files lists the matching files currently under the root, sorted.
func (w *Watcher) Files() ([]string, error) {
	return w.filesUnder(w.root)
}

func (w *Watcher) filesUnder(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.root && w.filter.Excluded(w.rel(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.wants(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// Start begins delivering batches to callback. Batches are sorted.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) {
	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// Stop ends watching and releases the fsnotify handle. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.Warn("watch new directory", "path", event.Name, "error", err)
						continue
					}
					// Files may land before the watch is registered.
					files, err := w.filesUnder(event.Name)
					if err != nil {
						w.log.Warn("list new directory", "path", event.Name, "error", err)
					}
					w.accumulate(files, fire)
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.wants(event.Name) {
				continue
			}

			w.accumulate([]string{event.Name}, fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.accumulated) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for f := range w.accumulated {
		files = append(files, f)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	slices.Sort(files)
	w.log.Debug("files changed", "count", len(files))
	if w.callback != nil {
		w.callback(files)
	}
}

func (w *Watcher) accumulate(files []string, fire chan struct{}) {
	if len(files) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		w.accumulated[f] = true
	}
	w.resetTimerLocked(fire)
}

func (w *Watcher) resetTimerLocked(fire chan struct{}) {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) wants(path string) bool {
	return parser.IsSupportedExtension(path) && w.filter.Match(w.rel(path))
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.log.Warn("skip unreadable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.filter.Excluded(w.rel(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("watch directory", "path", path, "error", err)
		}
		return nil
	})
}
