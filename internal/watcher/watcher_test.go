package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pleme-io/codesearch/internal/ignore"
	"github.com/pleme-io/codesearch/internal/indexer"
)

type countingIndexer struct {
	mu    sync.Mutex
	calls int
}

func (c *countingIndexer) IndexIncremental(ctx context.Context, root string) (indexer.Stats, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return indexer.Stats{}, nil
}

func (c *countingIndexer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// reloadCountingMatcher wraps a real ignore.Matcher, counting Reload calls
// so tests can assert the watcher noticed an ignore-file change.
type reloadCountingMatcher struct {
	*ignore.Matcher
	reloads atomic.Int32
}

func (m *reloadCountingMatcher) Reload() {
	m.reloads.Add(1)
	m.Matcher.Reload()
}

func TestWatcher_FileChangeTriggersIncrementalIndex(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644))

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	idx := &countingIndexer{}

	w, err := New(root, matcher, idx, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc A() {}\n"), 0o644))

	require.Eventually(t, func() bool {
		return idx.Calls() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	idx := &countingIndexer{}

	w, err := New(root, matcher, idx, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(50 * time.Millisecond) // let fsnotify register the new directory
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.go"), []byte("package sub\n"), 0o644))

	require.Eventually(t, func() bool {
		return idx.Calls() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoreFileChangeReloadsMatcher(t *testing.T) {
	root := t.TempDir()

	matcher := &reloadCountingMatcher{Matcher: ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})}
	idx := &countingIndexer{}

	w, err := New(root, matcher, idx, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))

	require.Eventually(t, func() bool {
		return matcher.reloads.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}
