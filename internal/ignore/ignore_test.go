package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatcher(t *testing.T, opts MatcherOptions) *Matcher {
	t.Helper()
	if opts.RootDir == "" {
		opts.RootDir = t.TempDir()
	}
	return NewMatcher(opts)
}

func TestShouldIgnore_AlwaysExcludedDirectory(t *testing.T) {
	root := t.TempDir()
	m := newMatcher(t, MatcherOptions{RootDir: root})

	assert.True(t, m.ShouldIgnore(filepath.Join(root, "node_modules", "pkg", "index.js")))
	assert.True(t, m.ShouldIgnore(filepath.Join(root, ".git", "HEAD")))
}

func TestShouldIgnore_DefaultPatternExtension(t *testing.T) {
	root := t.TempDir()
	m := newMatcher(t, MatcherOptions{RootDir: root})

	assert.True(t, m.ShouldIgnore(filepath.Join(root, "bundle.min.js")))
	assert.True(t, m.ShouldIgnore(filepath.Join(root, "photo.PNG")))
}

func TestShouldIgnore_AllowsOrdinarySourceFile(t *testing.T) {
	root := t.TempDir()
	m := newMatcher(t, MatcherOptions{RootDir: root})

	assert.False(t, m.ShouldIgnore(filepath.Join(root, "main.go")))
}

func TestShouldIgnore_GitignoreChain(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("secrets/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "secrets"), 0o755))

	m := newMatcher(t, MatcherOptions{RootDir: root})
	assert.True(t, m.ShouldIgnore(filepath.Join(root, "secrets", "api_key.txt")))
}

func TestShouldIgnore_CodesearchignoreLayerOverridesEarlier(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.generated.go\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".codesearchignore"), []byte("!keep.generated.go\n"), 0o644))

	m := newMatcher(t, MatcherOptions{RootDir: root})
	assert.True(t, m.ShouldIgnore(filepath.Join(root, "drop.generated.go")))
	assert.False(t, m.ShouldIgnore(filepath.Join(root, "keep.generated.go")))
}

func TestShouldIgnore_CustomPattern(t *testing.T) {
	root := t.TempDir()
	m := newMatcher(t, MatcherOptions{RootDir: root, CustomPatterns: []string{"fixtures/**"}})
	assert.True(t, m.ShouldIgnore(filepath.Join(root, "fixtures", "big.json")))
}

func TestShouldIgnoreDir_FastPathSkipsAlwaysExcluded(t *testing.T) {
	root := t.TempDir()
	m := newMatcher(t, MatcherOptions{RootDir: root})
	assert.True(t, m.ShouldIgnoreDir(filepath.Join(root, "vendor")))
}

func TestIsFileTooLarge(t *testing.T) {
	m := newMatcher(t, MatcherOptions{MaxFileSizeBytes: 100})
	assert.True(t, m.IsFileTooLarge(200))
	assert.False(t, m.IsFileTooLarge(50))
}

func TestIsFileTooLarge_DefaultBudget(t *testing.T) {
	m := newMatcher(t, MatcherOptions{})
	assert.Equal(t, int64(defaultMaxFileSizeBytes), m.MaxFileSizeBytes())
}

func TestReload_PicksUpNewIgnoreFile(t *testing.T) {
	root := t.TempDir()
	m := newMatcher(t, MatcherOptions{RootDir: root})
	path := filepath.Join(root, "generated.go")
	assert.False(t, m.ShouldIgnore(path))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".ignore"), []byte("generated.go\n"), 0o644))
	m.Reload()
	assert.True(t, m.ShouldIgnore(path))
}
