// Command codesearch is a thin smoke-test driver over the engine handle.
// It is not part of the core: the core never imports this package, and
// every operation here is a single call into internal/engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pleme-io/codesearch/internal/engine"
	"github.com/pleme-io/codesearch/internal/indexer"
	"github.com/pleme-io/codesearch/internal/searcher"
	"github.com/pleme-io/codesearch/pkg/types"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	cmd, rest := args[0], args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd {
	case "index":
		err = runIndex(ctx, rest, false)
	case "reindex":
		err = runIndex(ctx, rest, true)
	case "clear":
		err = runClear(ctx, rest)
	case "search":
		err = runSearch(ctx, rest)
	case "find-references":
		err = runFindReferences(ctx, rest)
	case "watch":
		err = runWatch(ctx, rest)
	default:
		usage()
		return 2
	}

	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "codesearch:", err)
	if ctx.Err() != nil {
		return 130
	}
	return 1
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: codesearch <command> [flags]

commands:
  index             build or update the index (incremental)
  reindex           rebuild the index from scratch
  clear             remove every record from the index
  search            run a hybrid search query
  find-references   look up a symbol by whole-word match
  watch             watch the tree and reindex incrementally on change`)
}

func runIndex(ctx context.Context, args []string, full bool) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	root := fs.String("root", ".", "source tree to index")
	dbRoot := fs.String("db", "", "explicit index directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := engine.Open(ctx, engine.Options{Root: *root, DBRoot: *dbRoot})
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	var stats indexer.Stats
	if full {
		stats, err = h.IndexFull(ctx)
	} else {
		stats, err = h.IndexIncremental(ctx)
	}
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

func runClear(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	root := fs.String("root", ".", "source tree whose index should be cleared")
	dbRoot := fs.String("db", "", "explicit index directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := engine.Open(ctx, engine.Options{Root: *root, DBRoot: *dbRoot})
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	return h.Clear(ctx)
}

func runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	root := fs.String("root", ".", "source tree to search")
	dbRoot := fs.String("db", "", "explicit index directory")
	mode := fs.String("mode", "hybrid", "hybrid | vector | hybrid+rerank")
	k := fs.Int("k", searcher.DefaultK, "results to return")
	perFile := fs.Int("per-file", 0, "max results per file (0 = unbounded)")
	filterPath := fs.String("filter-path", "", "restrict results to this path prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("search: a query is required")
	}
	query := fs.Arg(0)

	h, err := engine.Open(ctx, engine.Options{Root: *root, DBRoot: *dbRoot})
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	results, err := h.Search(ctx, query, searcher.Options{
		K:          *k,
		PerFile:    *perFile,
		FilterPath: *filterPath,
		Mode:       searcher.Mode(*mode),
	})
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

func runFindReferences(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("find-references", flag.ContinueOnError)
	root := fs.String("root", ".", "source tree to search")
	dbRoot := fs.String("db", "", "explicit index directory")
	k := fs.Int("k", searcher.DefaultK, "results to return")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("find-references: a symbol is required")
	}
	symbol := fs.Arg(0)

	h, err := engine.Open(ctx, engine.Options{Root: *root, DBRoot: *dbRoot})
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	results, err := h.FindReferences(ctx, symbol, *k)
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	root := fs.String("root", ".", "source tree to watch")
	dbRoot := fs.String("db", "", "explicit index directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := engine.Open(ctx, engine.Options{Root: *root, DBRoot: *dbRoot})
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	slog.Info("watching", "root", *root)
	return h.Watch(ctx)
}

func printStats(s indexer.Stats) {
	if s.UpToDate {
		fmt.Println("up to date")
		return
	}
	fmt.Printf("unchanged=%d changed=%d new=%d deleted=%d chunks=%d failed=%d duration=%s\n",
		s.Unchanged, s.Changed, s.New, s.Deleted, s.ChunksProcessed, s.FilesFailed, s.Duration)
}

func printResults(results []types.SearchResult) {
	for i, r := range results {
		fmt.Printf("%d. %.4f %s:%d-%d %s %s\n", i+1, r.Score, r.Path, r.StartLine, r.EndLine, r.Kind, r.Name)
	}
}
