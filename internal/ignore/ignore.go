package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// chainFiles lists the ignore files consulted for a root directory, in
// layering order: a later layer's rules are applied after (and so can
// override, via negation) an earlier one's.
var chainFiles = []string{".gitignore", ".ignore", ".codesearchignore"}

const defaultMaxFileSizeBytes = 1 * 1024 * 1024

// MatcherOptions configures a Matcher.
type MatcherOptions struct {
	RootDir          string
	CustomPatterns   []string
	MaxFileSizeBytes int64
}

// Matcher decides whether a path should be excluded from indexing. It
// layers the built-in always-excluded set and default patterns underneath
// a chain of .gitignore, .ignore, and .codesearchignore files loaded from
// RootDir, plus any caller-supplied custom patterns.
//
// Thread-safe: Reload acquires a write lock; ShouldIgnore and
// ShouldIgnoreDir acquire a read lock.
type Matcher struct {
	mu               sync.RWMutex
	rootDir          string
	chain            []gitignore.GitIgnore // parallel to chainFiles, nil entries are absent files
	customPatterns   []string
	maxFileSizeBytes int64
}

// NewMatcher builds a Matcher rooted at options.RootDir, loading whichever
// ignore files in the chain currently exist.
func NewMatcher(options MatcherOptions) *Matcher {
	m := &Matcher{
		rootDir:          options.RootDir,
		customPatterns:   options.CustomPatterns,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	if m.maxFileSizeBytes <= 0 {
		m.maxFileSizeBytes = defaultMaxFileSizeBytes
	}
	m.chain = loadChain(m.rootDir)
	return m
}

// ShouldIgnore reports whether path (absolute, or relative to RootDir)
// should be excluded from indexing.
func (m *Matcher) ShouldIgnore(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath := m.relativize(path)

	if matchesBuiltins(relativePath) {
		return true
	}

	isDir := false
	if info, err := os.Stat(path); err == nil {
		isDir = info.IsDir()
	}

	for _, gi := range m.chain {
		if gi == nil {
			continue
		}
		if match := gi.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return matchesCustomPatterns(relativePath, m.customPatterns)
}

// ShouldIgnoreDir reports whether a directory should be skipped before its
// contents are ever walked. It short-circuits on the always-excluded
// basenames so a walker never has to descend into e.g. node_modules before
// finding out it didn't need to.
func (m *Matcher) ShouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	for _, name := range AlwaysExcluded {
		if strings.EqualFold(base, name) {
			return true
		}
	}
	return m.ShouldIgnore(path)
}

// IsFileTooLarge reports whether size exceeds the matcher's size cap.
func (m *Matcher) IsFileTooLarge(size int64) bool {
	return size > m.maxFileSizeBytes
}

// MaxFileSizeBytes returns the configured size cap.
func (m *Matcher) MaxFileSizeBytes() int64 {
	return m.maxFileSizeBytes
}

// Reload re-reads the ignore chain from disk. Called by the watcher when
// one of the chain files themselves changes.
func (m *Matcher) Reload() {
	newChain := loadChain(m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.chain = newChain
}

func (m *Matcher) relativize(path string) string {
	rel, err := filepath.Rel(m.rootDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func loadChain(rootDir string) []gitignore.GitIgnore {
	chain := make([]gitignore.GitIgnore, len(chainFiles))
	for i, name := range chainFiles {
		chain[i] = loadIgnoreFile(filepath.Join(rootDir, name), rootDir)
	}
	return chain
}

// loadIgnoreFile reads an ignore file and builds a gitignore matcher from
// it, or returns nil if the file doesn't exist.
func loadIgnoreFile(path, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, baseDir, nil)
}

// matchesBuiltins checks relativePath's components against AlwaysExcluded
// and its basename/full path against DefaultIgnorePatterns.
func matchesBuiltins(relativePath string) bool {
	parts := strings.Split(relativePath, "/")
	for _, part := range parts {
		for _, name := range AlwaysExcluded {
			if strings.EqualFold(part, name) {
				return true
			}
		}
	}

	base := strings.ToLower(filepath.Base(relativePath))
	lowerRel := strings.ToLower(relativePath)
	for _, pattern := range DefaultIgnorePatterns {
		pattern = strings.ToLower(pattern)
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, lowerRel); ok {
			return true
		}
	}
	return false
}

func matchesCustomPatterns(relativePath string, patterns []string) bool {
	base := filepath.Base(relativePath)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, relativePath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
