package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pleme-io/codesearch/internal/chunker"
	"github.com/pleme-io/codesearch/internal/dbdiscovery"
	"github.com/pleme-io/codesearch/internal/embedder"
	"github.com/pleme-io/codesearch/internal/filemeta"
	"github.com/pleme-io/codesearch/internal/ftstore"
	"github.com/pleme-io/codesearch/internal/ignore"
	"github.com/pleme-io/codesearch/internal/indexer"
	"github.com/pleme-io/codesearch/internal/language"
	"github.com/pleme-io/codesearch/internal/manifest"
	"github.com/pleme-io/codesearch/internal/searcher"
	"github.com/pleme-io/codesearch/internal/vectorstore"
	"github.com/pleme-io/codesearch/internal/watcher"
	"github.com/pleme-io/codesearch/pkg/types"

	"golang.org/x/sync/errgroup"
)

// Handle bundles every component needed to index and search one
// repository. It owns the lifetime of all open stores: callers must call
// Close when done. A process may hold more than one Handle to serve more
// than one repository at once; nothing here is a package-level global.
type Handle struct {
	root   string
	dbRoot string
	logger *slog.Logger

	vector vectorstore.Store
	fts    *ftstore.Store
	meta   *filemeta.Store

	embedder embedder.Embedder
	matcher  *ignore.Matcher
	registry *language.Registry

	maintainer *indexer.Maintainer
	searcher   *searcher.Searcher
}

// Options configures Open.
type Options struct {
	// Root is the source tree to index and search. Required.
	Root string
	// DBRoot, if set, is used as the index directory directly, bypassing
	// discovery. Otherwise Open discovers an existing index via
	// internal/dbdiscovery, falling back to Root/.codesearch.db.
	DBRoot string
	// LogWriter receives structured log output; os.Stderr if nil.
	LogWriter io.Writer
	// Quiet suppresses prose index-progress logging in favor of
	// structured-only progress events.
	Quiet bool
}

// Open builds a Handle over root, discovering or creating its index
// directory, opening every store, and wiring the maintainer and searcher.
func Open(ctx context.Context, opts Options) (*Handle, error) {
	if opts.Root == "" {
		return nil, types.ErrInvalidInput("engine: root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	out := opts.LogWriter
	if out == nil {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	dbRoot := opts.DBRoot
	if dbRoot == "" {
		if found, err := dbdiscovery.Locate(root, logger); err == nil && found != nil {
			dbRoot = found.Dir
			logger.Info("discovered index directory",
				"dir", found.Dir, "project_root", found.ProjectRoot, "depth", found.Depth, "global", found.Global)
		} else {
			dbRoot = filepath.Join(root, dbdiscovery.DefaultIndexDirName)
		}
	}

	if err := os.MkdirAll(filepath.Join(dbRoot, "vectors"), 0o755); err != nil {
		return nil, fmt.Errorf("create vectors dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dbRoot, "fts"), 0o755); err != nil {
		return nil, fmt.Errorf("create fts dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dbRoot, "meta"), 0o755); err != nil {
		return nil, fmt.Errorf("create meta dir: %w", err)
	}

	emb := embedder.NewFromEnv()

	m, err := manifest.Load(dbRoot)
	if err != nil {
		m = manifest.New(emb.ModelID(), emb.Dimension())
		if err := manifest.Save(dbRoot, m); err != nil {
			return nil, fmt.Errorf("save manifest: %w", err)
		}
	} else if emb.Dimension() != m.VectorDim {
		return nil, types.NewCorruption("manifest",
			fmt.Errorf("vector width mismatch: index built with dimension %d, current embedder produces %d", m.VectorDim, emb.Dimension()))
	}

	vs, err := vectorstore.Open(filepath.Join(dbRoot, "vectors", "vectors.db"), m.VectorDim)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	fs, err := ftstore.Open(filepath.Join(dbRoot, "fts"))
	if err != nil {
		_ = vs.Close()
		return nil, fmt.Errorf("open fts store: %w", err)
	}
	ms, err := filemeta.Open(filepath.Join(dbRoot, "meta", "filemeta.bolt"))
	if err != nil {
		_ = vs.Close()
		_ = fs.Close()
		return nil, fmt.Errorf("open file-meta store: %w", err)
	}

	reg := language.RegisterAll()
	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})

	maintainer := indexer.New(indexer.Options{
		DBRoot:   dbRoot,
		Vector:   vs,
		FTS:      fs,
		Meta:     ms,
		Embedder: emb,
		Chunker:  chunker.New(reg),
		Matcher:  matcher,
		Registry: reg,
		Logger:   logger,
		Quiet:    opts.Quiet,
	})

	srch := searcher.New(vs, fs, emb, searcher.NewLexicalOverlapReranker())

	return &Handle{
		root:       root,
		dbRoot:     dbRoot,
		logger:     logger,
		vector:     vs,
		fts:        fs,
		meta:       ms,
		embedder:   emb,
		matcher:    matcher,
		registry:   reg,
		maintainer: maintainer,
		searcher:   srch,
	}, nil
}

// DBRoot returns the index directory this handle is backed by.
func (h *Handle) DBRoot() string { return h.dbRoot }

// IndexFull rebuilds the index from scratch against every discovered file.
func (h *Handle) IndexFull(ctx context.Context) (indexer.Stats, error) {
	return h.maintainer.IndexFull(ctx, h.root)
}

// IndexIncremental updates the index to match the current state of the
// tree, touching only changed, new, and deleted files.
func (h *Handle) IndexIncremental(ctx context.Context) (indexer.Stats, error) {
	return h.maintainer.IndexIncremental(ctx, h.root)
}

// Clear removes every record from the index without deleting the index
// directory itself.
func (h *Handle) Clear(ctx context.Context) error {
	return h.maintainer.Clear(ctx)
}

// Search answers one hybrid, vector-only, or hybrid+rerank query.
func (h *Handle) Search(ctx context.Context, query string, opts searcher.Options) ([]types.SearchResult, error) {
	return h.searcher.Search(ctx, query, opts)
}

// FindReferences answers one whole-word, FTS-only symbol lookup.
func (h *Handle) FindReferences(ctx context.Context, symbol string, k int) ([]types.SearchResult, error) {
	return h.searcher.FindReferences(ctx, symbol, k)
}

// Watch blocks, driving incremental re-indexing from live filesystem
// notifications until ctx is canceled.
func (h *Handle) Watch(ctx context.Context) error {
	w, err := watcher.New(h.root, h.matcher, h.maintainer, h.logger)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	w.Start(ctx)
	return nil
}

// Close releases every store this handle opened, concurrently since the
// three are independent. It returns the first error encountered, if any;
// the others are still attempted.
func (h *Handle) Close() error {
	var g errgroup.Group
	g.Go(func() error {
		if err := h.vector.Close(); err != nil {
			return fmt.Errorf("close vector store: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := h.fts.Close(); err != nil {
			return fmt.Errorf("close fts store: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := h.meta.Close(); err != nil {
			return fmt.Errorf("close file-meta store: %w", err)
		}
		return nil
	})
	return g.Wait()
}
