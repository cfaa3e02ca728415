package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/codesearch/internal/ignore"
	"github.com/pleme-io/codesearch/internal/language"
)

func collect(t *testing.T, root string, matcher *ignore.Matcher) []FileInfo {
	t.Helper()
	reg := language.RegisterAll()
	files, errs := Walk(context.Background(), root, matcher, reg)

	var out []FileInfo
	for f := range files {
		out = append(out, f)
	}
	require.NoError(t, <-errs)
	return out
}

func TestWalk_FindsOrdinaryFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "util.py"), []byte("def f(): pass\n"), 0o644))

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	got := collect(t, root, matcher)

	var rel []string
	for _, f := range got {
		rel = append(rel, f.RelPath)
	}
	assert.ElementsMatch(t, []string{"main.go", "sub/util.py"}, rel)
}

func TestWalk_SkipsIgnoredDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "lib.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("x"), 0o644))

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	got := collect(t, root, matcher)
	require.Len(t, got, 1)
	assert.Equal(t, "app.js", got[0].RelPath)
}

func TestWalk_SkipsBinaryContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "image.bin"), []byte{0x00, 0x01, 0x02, 'a', 'b'}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "text.txt"), []byte("hello world"), 0o644))

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	got := collect(t, root, matcher)
	require.Len(t, got, 1)
	assert.Equal(t, "text.txt", got[0].RelPath)
}

func TestWalk_SkipsOversizedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), make([]byte, 200), 0o644))

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root, MaxFileSizeBytes: 100})
	got := collect(t, root, matcher)
	assert.Empty(t, got)
}

func TestWalk_SetsLanguageFromRegistry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	got := collect(t, root, matcher)
	require.Len(t, got, 1)
	assert.Equal(t, "go", got[0].Language)
}

func TestWalk_RespectsContextCancellation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	reg := language.RegisterAll()
	files, errs := Walk(ctx, root, matcher, reg)

	for range files {
	}
	<-errs
}
