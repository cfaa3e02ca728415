// Package watcher wraps fsnotify with a 300ms debounce window and drives
// incremental re-indexing when the watched tree settles.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pleme-io/codesearch/internal/indexer"
)

// DebounceInterval is the quiet period a burst of file system events must
// go without a further event before the watcher acts on it.
const DebounceInterval = 300 * time.Millisecond

var ignoreFileNames = map[string]bool{
	".gitignore":        true,
	".ignore":           true,
	".codesearchignore": true,
}

// IgnoreMatcher is the subset of ignore.Matcher the watcher depends on: it
// filters events through the same rules the walker uses, and reloads them
// when an ignore file itself changes.
type IgnoreMatcher interface {
	ShouldIgnoreDir(path string) bool
	ShouldIgnore(path string) bool
	Reload()
}

// Indexer is the subset of the maintainer the watcher drives: one
// incremental pass per settled debounce window.
type Indexer interface {
	IndexIncremental(ctx context.Context, root string) (indexer.Stats, error)
}

// Watcher recursively watches rootDir and calls Indexer.IndexIncremental
// once per settled debounce window.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	matcher   IgnoreMatcher
	idx       Indexer
	rootDir   string
	logger    *slog.Logger
}

// New creates a recursive watcher over rootDir, registering every
// non-ignored subdirectory with fsnotify.
func New(rootDir string, matcher IgnoreMatcher, idx Indexer, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(DebounceInterval),
		matcher:   matcher,
		idx:       idx,
		rootDir:   rootDir,
		logger:    logger,
	}

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootDir && matcher.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Start runs the event loop until ctx is cancelled or the watcher is
// closed. Call it in its own goroutine; errors during incremental updates
// are logged, never returned or propagated.
func (w *Watcher) Start(ctx context.Context) {
	go w.consumeBatches(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) consumeBatches(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.onBatch(ctx, batch)
		}
	}
}

func (w *Watcher) onBatch(ctx context.Context, batch []DebouncedEvent) {
	for _, e := range batch {
		if ignoreFileNames[filepath.Base(e.Path)] {
			w.matcher.Reload()
			break
		}
	}

	if _, err := w.idx.IndexIncremental(ctx, w.rootDir); err != nil {
		w.logger.Error("incremental index failed", "root", w.rootDir, "error", err)
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if !w.matcher.ShouldIgnoreDir(path) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if w.matcher.ShouldIgnore(path) && !ignoreFileNames[filepath.Base(path)] {
		return
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(path, op)
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
