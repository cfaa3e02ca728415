package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/codesearch/internal/chunker"
	"github.com/pleme-io/codesearch/internal/embedder"
	"github.com/pleme-io/codesearch/internal/filemeta"
	"github.com/pleme-io/codesearch/internal/ftstore"
	"github.com/pleme-io/codesearch/internal/ignore"
	"github.com/pleme-io/codesearch/internal/language"
	"github.com/pleme-io/codesearch/internal/vectorstore"
)

type harness struct {
	dbRoot string
	m      *Maintainer
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dbRoot := t.TempDir()

	vs, err := vectorstore.Open(filepath.Join(dbRoot, "vectors.db"), embedder.DefaultDeterministicDimension)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vs.Close() })

	fs, err := ftstore.Open(filepath.Join(dbRoot, "fts"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	ms, err := filemeta.Open(filepath.Join(dbRoot, "filemeta.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ms.Close() })

	reg := language.RegisterAll()
	m := New(Options{
		DBRoot:   dbRoot,
		Vector:   vs,
		FTS:      fs,
		Meta:     ms,
		Embedder: embedder.NewDeterministicEmbedder(embedder.DefaultDeterministicDimension),
		Chunker:  chunker.New(reg),
		Matcher:  ignore.NewMatcher(ignore.MatcherOptions{RootDir: t.TempDir()}),
		Registry: reg,
	})
	return harness{dbRoot: dbRoot, m: m}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndexFull_IndexesNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {\n\tprintln(\"hi\")\n}\n")

	h := newHarness(t)
	h.m.matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	stats, err := h.m.IndexFull(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.New)
	assert.Zero(t, stats.FilesFailed)
	assert.Greater(t, stats.ChunksProcessed, 0)
}

func TestIndexIncremental_NoChangesReturnsUpToDate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {}\n")

	h := newHarness(t)
	h.m.matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	_, err := h.m.IndexFull(context.Background(), root)
	require.NoError(t, err)

	stats, err := h.m.IndexIncremental(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, stats.UpToDate)
	assert.Equal(t, 1, stats.Unchanged)
}

func TestIndexIncremental_DetectsChangedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {}\n")

	h := newHarness(t)
	h.m.matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	_, err := h.m.IndexFull(context.Background(), root)
	require.NoError(t, err)

	// Force the mtime/size short-circuit to trip: change content and
	// mtime together.
	time.Sleep(10 * time.Millisecond)
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {\n\tprintln(\"changed\")\n}\n")

	stats, err := h.m.IndexIncremental(context.Background(), root)
	require.NoError(t, err)
	assert.False(t, stats.UpToDate)
	assert.Equal(t, 1, stats.Changed)
}

func TestIndexIncremental_DetectsDeletedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {}\n")

	h := newHarness(t)
	h.m.matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	_, err := h.m.IndexFull(context.Background(), root)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "main.go")))

	stats, err := h.m.IndexIncremental(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)

	_, ok, err := h.m.meta.Get("main.go")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexIncremental_NewFileAddedAfterFirstPass(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc A() {}\n")

	h := newHarness(t)
	h.m.matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	_, err := h.m.IndexFull(context.Background(), root)
	require.NoError(t, err)

	writeFile(t, root, "b.go", "package a\n\nfunc B() {}\n")

	stats, err := h.m.IndexIncremental(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Unchanged)
}

func TestClear_RemovesAllRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {}\n")

	h := newHarness(t)
	h.m.matcher = ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	_, err := h.m.IndexFull(context.Background(), root)
	require.NoError(t, err)

	require.NoError(t, h.m.Clear(context.Background()))

	var paths []string
	require.NoError(t, h.m.meta.IterPaths(func(p string) error {
		paths = append(paths, p)
		return nil
	}))
	assert.Empty(t, paths)
}

func TestAcquireWriteLock_SecondAcquireFails(t *testing.T) {
	dbRoot := t.TempDir()
	lock, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()

	_, err = AcquireWriteLock(dbRoot)
	require.Error(t, err)
}

func TestAcquireWriteLock_ReleaseAllowsReacquire(t *testing.T) {
	dbRoot := t.TempDir()
	lock, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	lock2, err := AcquireWriteLock(dbRoot)
	require.NoError(t, err)
	require.NoError(t, lock2.Release())
}
