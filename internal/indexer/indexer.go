package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pleme-io/codesearch/internal/chunker"
	"github.com/pleme-io/codesearch/internal/embedder"
	"github.com/pleme-io/codesearch/internal/filemeta"
	"github.com/pleme-io/codesearch/internal/ftstore"
	"github.com/pleme-io/codesearch/internal/ignore"
	"github.com/pleme-io/codesearch/internal/language"
	"github.com/pleme-io/codesearch/internal/vectorstore"
	"github.com/pleme-io/codesearch/internal/walker"
	"github.com/pleme-io/codesearch/pkg/types"
)

// Stats summarizes one maintainer run, reported back to the caller and, in
// quiet mode, emitted as structured log events instead of prose.
type Stats struct {
	Unchanged int
	Changed   int
	New       int
	Deleted   int

	ChunksProcessed int
	FilesFailed     int

	UpToDate bool
	Duration time.Duration
}

// Progress is one incremental report during a run, suitable for a
// caller-supplied callback or for driving structured log events.
type Progress struct {
	Path  string
	Class types.ChangeClass
	Done  int
	Total int
}

// Maintainer owns the write path of an index: discovering changed files,
// re-chunking and re-embedding them, and keeping the vector store, the
// full-text store, and the file-meta store in agreement about which chunk
// ids exist for which path.
type Maintainer struct {
	dbRoot string

	vector vectorstore.Store
	fts    *ftstore.Store
	meta   *filemeta.Store

	embedder embedder.Embedder
	chunker  *chunker.Chunker
	matcher  *ignore.Matcher
	registry *language.Registry

	logger *slog.Logger
	quiet  bool

	// OnProgress, if set, is called once per classified file during a run.
	OnProgress func(Progress)
}

// Options configures a Maintainer. DBRoot is the index directory (D in the
// on-disk layout); it is used only for the advisory write lock, since the
// stores themselves are already open.
type Options struct {
	DBRoot   string
	Vector   vectorstore.Store
	FTS      *ftstore.Store
	Meta     *filemeta.Store
	Embedder embedder.Embedder
	Chunker  *chunker.Chunker
	Matcher  *ignore.Matcher
	Registry *language.Registry
	Logger   *slog.Logger
	Quiet    bool
}

// New builds a Maintainer over already-open stores. The engine handle owns
// opening and closing them; the Maintainer only ever acquires the
// directory-level write lock for the duration of a run.
func New(opts Options) *Maintainer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Maintainer{
		dbRoot:   opts.DBRoot,
		vector:   opts.Vector,
		fts:      opts.FTS,
		meta:     opts.Meta,
		embedder: opts.Embedder,
		chunker:  opts.Chunker,
		matcher:  opts.Matcher,
		registry: opts.Registry,
		logger:   logger,
		quiet:    opts.Quiet,
	}
}

// IndexIncremental walks root, classifies files against the stored
// FileMeta using the mtime/size short-circuit, and processes only what
// changed.
func (m *Maintainer) IndexIncremental(ctx context.Context, root string) (Stats, error) {
	return m.run(ctx, root, false)
}

// IndexFull walks root and treats every discovered file as a hash-comparison
// candidate against an empty or stale FileMeta store, skipping the
// mtime/size short-circuit. It always calls ReindexANN once at the end.
func (m *Maintainer) IndexFull(ctx context.Context, root string) (Stats, error) {
	return m.run(ctx, root, true)
}

// Clear removes every chunk and file record the maintainer knows about,
// leaving empty but valid stores behind.
func (m *Maintainer) Clear(ctx context.Context) error {
	lock, err := acquireWriteLockRetry(ctx, m.dbRoot)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	var paths []string
	if err := m.meta.IterPaths(func(p string) error {
		paths = append(paths, p)
		return nil
	}); err != nil {
		return fmt.Errorf("list indexed paths: %w", err)
	}

	for _, p := range paths {
		if err := m.deletePath(ctx, p); err != nil {
			return fmt.Errorf("clear %s: %w", p, err)
		}
	}
	return nil
}

func (m *Maintainer) run(ctx context.Context, root string, full bool) (Stats, error) {
	start := time.Now()

	lock, err := acquireWriteLockRetry(ctx, m.dbRoot)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = lock.Release() }()

	classified, stats, err := m.classify(ctx, root, full)
	if err != nil {
		return Stats{}, err
	}

	toDelete := len(classified.deleted) + len(classified.changed)
	toProcess := len(classified.changed) + len(classified.new)
	if toDelete == 0 && toProcess == 0 {
		stats.UpToDate = true
		stats.Duration = time.Since(start)
		m.logProgress(stats)
		return stats, nil
	}

	for _, p := range classified.deleted {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := m.deletePath(ctx, p); err != nil {
			return stats, fmt.Errorf("delete %s: %w", p, err)
		}
	}
	for _, p := range classified.changed {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := m.deletePath(ctx, p); err != nil {
			return stats, fmt.Errorf("delete stale chunks for %s: %w", p, err)
		}
	}

	total := toProcess
	done := 0
	for _, fi := range classified.toProcess {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		n, err := m.processFile(ctx, fi)
		done++
		if err != nil {
			m.logger.Error("index file failed", "path", fi.RelPath, "error", err)
			stats.FilesFailed++
			continue
		}
		stats.ChunksProcessed += n
		m.reportProgress(Progress{Path: fi.RelPath, Class: classified.classOf(fi.RelPath), Done: done, Total: total})
	}

	if full {
		if err := m.vector.ReindexANN(ctx); err != nil {
			return stats, fmt.Errorf("reindex ann: %w", err)
		}
	}

	stats.Duration = time.Since(start)
	m.logProgress(stats)
	return stats, nil
}

// processFile chunks, embeds, and upserts one file, then records its
// FileMeta. On any failure it rolls back whatever partial writes it already
// made for this file so that prior files remain committed (§4.6's per-file
// commit invariant).
func (m *Maintainer) processFile(ctx context.Context, fi walker.FileInfo) (int, error) {
	content, err := os.ReadFile(fi.Path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", fi.RelPath, err)
	}

	chunks, err := m.chunker.Chunk(ctx, fi.RelPath, content)
	if err != nil {
		return 0, fmt.Errorf("chunk %s: %w", fi.RelPath, err)
	}

	whole := sha256.Sum256(content)

	if len(chunks) == 0 {
		return 0, m.meta.Put(&types.FileMeta{
			Path:        fi.RelPath,
			ContentHash: whole,
			ModTime:     fi.ModTime,
			Size:        fi.Size,
		})
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		chunks[i].ComputeContentHash()
		chunks[i].ComputeID()
		texts[i] = chunks[i].Content
	}

	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", fi.RelPath, err)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	// FTS -> vector -> FileMeta, per the transaction discipline: FileMeta is
	// the last-written witness, so a reader that hasn't seen it yet behaves
	// as if the file weren't indexed.
	if err := m.fts.Upsert(chunks); err != nil {
		return 0, fmt.Errorf("fts upsert %s: %w", fi.RelPath, err)
	}
	if err := m.vector.Upsert(ctx, chunks); err != nil {
		m.rollbackFTS(chunks)
		return 0, fmt.Errorf("vector upsert %s: %w", fi.RelPath, err)
	}

	ids := make([]int64, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
	}
	if err := m.meta.Put(&types.FileMeta{
		Path:        fi.RelPath,
		ContentHash: whole,
		ModTime:     fi.ModTime,
		Size:        fi.Size,
		ChunkIDs:    ids,
	}); err != nil {
		m.rollbackFTS(chunks)
		_ = m.vector.Delete(ctx, ids)
		return 0, fmt.Errorf("put file meta %s: %w", fi.RelPath, err)
	}

	return len(chunks), nil
}

func (m *Maintainer) rollbackFTS(chunks []types.Chunk) {
	ids := make([]int64, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
	}
	if err := m.fts.Delete(ids); err != nil {
		m.logger.Error("rollback fts delete failed", "error", err)
	}
}

// deletePath removes every chunk recorded for path from both stores and
// the FileMeta record itself.
func (m *Maintainer) deletePath(ctx context.Context, path string) error {
	fm, ok, err := m.meta.Get(path)
	if err != nil {
		return err
	}
	if ok && len(fm.ChunkIDs) > 0 {
		if err := m.fts.Delete(fm.ChunkIDs); err != nil {
			return fmt.Errorf("fts delete for %s: %w", path, err)
		}
		if err := m.vector.Delete(ctx, fm.ChunkIDs); err != nil {
			return fmt.Errorf("vector delete for %s: %w", path, err)
		}
	} else {
		// No recorded chunk ids (e.g. an empty-file record, or a path the
		// vector store still knows about from an older schema); fall back
		// to a path-keyed sweep of the vector store.
		if _, err := m.vector.DeleteByPath(ctx, path); err != nil {
			return fmt.Errorf("vector delete by path %s: %w", path, err)
		}
	}
	return m.meta.Delete(path)
}

func (m *Maintainer) reportProgress(p Progress) {
	if m.OnProgress != nil {
		m.OnProgress(p)
	}
	if m.quiet {
		m.logger.Info("index progress",
			slog.Group("progress", "path", p.Path, "class", p.Class.String(), "done", p.Done, "total", p.Total))
	}
}

func (m *Maintainer) logProgress(stats Stats) {
	m.logger.Info("index run complete",
		slog.Group("progress",
			"unchanged", stats.Unchanged,
			"changed", stats.Changed,
			"new", stats.New,
			"deleted", stats.Deleted,
			"chunks_processed", stats.ChunksProcessed,
			"files_failed", stats.FilesFailed,
			"up_to_date", stats.UpToDate,
			"duration", stats.Duration.String(),
		))
}
