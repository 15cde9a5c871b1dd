// Package watch triggers repository rescans when the base directory tree
// changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aki/gitboss/internal/core/discovery"
	"github.com/aki/gitboss/internal/core/logger"
)

const (
	// DefaultDebounce is how long the tree must be quiet before a rescan
	DefaultDebounce = 500 * time.Millisecond
)

// RescanFunc is called after a burst of changes settles
type RescanFunc func(ctx context.Context) error

// Options configures a Watcher
type Options struct {
	Base     string
	MaxDepth int
	// Debounce defaults to DefaultDebounce
	Debounce time.Duration
	// PollInterval forces a rescan periodically in case events are missed.
	// Zero disables polling.
	PollInterval time.Duration
}

// Watcher watches the directories a scan would visit and calls a RescanFunc
// when entries appear or disappear in them
type Watcher struct {
	opts     Options
	base     string
	onChange RescanFunc
	log      logger.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string]int
	ready   chan struct{}
}

// New creates a Watcher. The base directory must exist.
func New(opts Options, onChange RescanFunc, log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}

	base, err := filepath.Abs(opts.Base)
	if err != nil {
		return nil, fmt.Errorf("invalid base directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", discovery.ErrDirectoryNotFound, opts.Base)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		opts:     opts,
		base:     base,
		onChange: onChange,
		log:      log.With("base", base),
		fsw:      fsw,
		watched:  make(map[string]int),
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once the initial directories are being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watched returns the watched directories in name order
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.watched))
	for dir := range w.watched {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Run watches until ctx is cancelled. It always returns ctx.Err() or nil when
// the underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	w.addTree(w.base, 0)
	close(w.ready)
	w.log.Info("watching for repository changes", "max_depth", w.opts.MaxDepth, "dirs", len(w.Watched()))

	var poll <-chan time.Time
	if w.opts.PollInterval > 0 {
		ticker := time.NewTicker(w.opts.PollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.opts.Debounce)
		} else {
			timer.Stop()
			timer.Reset(w.opts.Debounce)
		}
		fire = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				schedule()
			}

		case <-fire:
			fire = nil
			w.rescan(ctx)

		case <-poll:
			w.rescan(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", "error", err)
		}
	}
}

// handle updates the watch set for event and reports whether a rescan is due
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") && name != discovery.GitDir {
		return false
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.forget(event.Name)
		if name == discovery.GitDir {
			// The parent is a plain directory again; watch what is below it
			parent := filepath.Dir(event.Name)
			w.mu.Lock()
			depth, ok := w.watched[parent]
			w.mu.Unlock()
			if ok {
				w.addTree(parent, depth)
			}
		}
		return true
	}

	if name == discovery.GitDir {
		// The parent became a repository; scans no longer look inside it
		w.forgetBelow(filepath.Dir(event.Name))
		return true
	}

	info, err := os.Lstat(event.Name)
	if err != nil || !info.IsDir() {
		return false
	}

	w.mu.Lock()
	parentDepth, ok := w.watched[filepath.Dir(event.Name)]
	w.mu.Unlock()
	if ok {
		w.addTree(event.Name, parentDepth+1)
	}
	return true
}

func (w *Watcher) rescan(ctx context.Context) {
	if w.onChange == nil {
		return
	}
	w.log.Debug("rescanning after change")
	if err := w.onChange(ctx); err != nil {
		w.log.Error("rescan failed", "error", err)
	}
}

// addTree watches dir and its subdirectories down to MaxDepth, stopping at
// repositories and skipping hidden directories
func (w *Watcher) addTree(dir string, depth int) {
	if depth > w.opts.MaxDepth {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		w.log.Debug("cannot watch directory", "dir", dir, "error", err)
		return
	}

	w.mu.Lock()
	w.watched[dir] = depth
	w.mu.Unlock()

	if discovery.IsRepository(dir) || depth == w.opts.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.IsDir() {
			continue
		}
		w.addTree(filepath.Join(dir, entry.Name()), depth+1)
	}
}

func (w *Watcher) forget(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := dir + string(filepath.Separator)
	for watched := range w.watched {
		if watched == dir || strings.HasPrefix(watched, prefix) {
			_ = w.fsw.Remove(watched)
			delete(w.watched, watched)
		}
	}
}

// forgetBelow stops watching the subdirectories of dir but keeps dir itself
func (w *Watcher) forgetBelow(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := dir + string(filepath.Separator)
	for watched := range w.watched {
		if strings.HasPrefix(watched, prefix) {
			_ = w.fsw.Remove(watched)
			delete(w.watched, watched)
		}
	}
}
