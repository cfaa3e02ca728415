package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/pleme-io/codesearch/internal/walker"
	"github.com/pleme-io/codesearch/pkg/types"
)

// classification is the result of diffing one walk against the stored
// FileMeta: the four-way split §4.6 names, plus the walker-ordered subset
// that actually needs chunking.
type classification struct {
	unchanged []string
	changed   []string
	new       []string
	deleted   []string

	toProcess []walker.FileInfo // changed ∪ new, walker order preserved
	classes   map[string]types.ChangeClass
}

func (c *classification) classOf(path string) types.ChangeClass {
	return c.classes[path]
}

// classify walks root and diffs every discovered path against the stored
// FileMeta. When full is true the mtime/size short-circuit is skipped, so
// every discovered file is hash-compared as if the FileMeta store were
// empty or stale.
func (m *Maintainer) classify(ctx context.Context, root string, full bool) (*classification, Stats, error) {
	filesCh, errsCh := walker.Walk(ctx, root, m.matcher, m.registry)

	c := &classification{classes: make(map[string]types.ChangeClass)}
	seen := make(map[string]struct{})

	for fi := range filesCh {
		stored, ok, err := m.meta.Get(fi.RelPath)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("read file meta for %s: %w", fi.RelPath, err)
		}
		seen[fi.RelPath] = struct{}{}

		switch {
		case !ok:
			c.new = append(c.new, fi.RelPath)
			c.toProcess = append(c.toProcess, fi)
			c.classes[fi.RelPath] = types.New

		case !full && stored.ModTime.Equal(fi.ModTime) && stored.Size == fi.Size:
			c.unchanged = append(c.unchanged, fi.RelPath)
			c.classes[fi.RelPath] = types.Unchanged

		default:
			hash, err := hashFile(fi.Path)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("hash %s: %w", fi.RelPath, err)
			}
			if hash == stored.ContentHash {
				c.unchanged = append(c.unchanged, fi.RelPath)
				c.classes[fi.RelPath] = types.Unchanged
			} else {
				c.changed = append(c.changed, fi.RelPath)
				c.toProcess = append(c.toProcess, fi)
				c.classes[fi.RelPath] = types.Changed
			}
		}
	}

	if err := <-errsCh; err != nil {
		return nil, Stats{}, fmt.Errorf("walk %s: %w", root, err)
	}

	if err := m.meta.IterPaths(func(p string) error {
		if _, ok := seen[p]; !ok {
			c.deleted = append(c.deleted, p)
			c.classes[p] = types.Deleted
		}
		return nil
	}); err != nil {
		return nil, Stats{}, fmt.Errorf("list indexed paths: %w", err)
	}

	stats := Stats{
		Unchanged: len(c.unchanged),
		Changed:   len(c.changed),
		New:       len(c.new),
		Deleted:   len(c.deleted),
	}
	return c, stats, nil
}

func hashFile(path string) ([32]byte, error) {
	var zero [32]byte
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return zero, err
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
