package searcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/pleme-io/codesearch/internal/embedder"
	"github.com/pleme-io/codesearch/internal/ftstore"
	"github.com/pleme-io/codesearch/internal/vectorstore"
	"github.com/pleme-io/codesearch/pkg/types"
)

// Mode selects how Search combines candidate sources.
type Mode string

const (
	ModeHybrid       Mode = "hybrid"        // vector + BM25, RRF fused (default)
	ModeVector       Mode = "vector"        // vector similarity only
	ModeHybridRerank Mode = "hybrid+rerank" // hybrid, then lexical-overlap rerank
)

// DefaultK is the result count returned when Options.K is unset.
const DefaultK = 25

// DefaultRerankTop is how many fused candidates mode=hybrid+rerank feeds
// through the reranker.
const DefaultRerankTop = 50

// Options configures one Search call.
type Options struct {
	K           int  // results to return; DefaultK if <= 0
	PerFile     int  // max results per path; 0 means unbounded
	FilterPath  string
	Mode        Mode // ModeHybrid if empty
	RRFConstant float64
	RerankTop   int
}

func (o *Options) normalize() {
	if o.K <= 0 {
		o.K = DefaultK
	}
	if o.Mode == "" {
		o.Mode = ModeHybrid
	}
	if o.RRFConstant <= 0 {
		o.RRFConstant = DefaultRRFConstant
	}
	if o.RerankTop <= 0 {
		o.RerankTop = DefaultRerankTop
	}
}

// Searcher answers search and find_references queries over one index's
// vector and full-text stores.
type Searcher struct {
	vector   vectorstore.Store
	fts      *ftstore.Store
	embedder embedder.Embedder
	reranker Reranker
}

// New builds a Searcher. reranker may be nil, in which case
// mode=hybrid+rerank is a stable pass-through over the RRF order.
func New(vector vectorstore.Store, fts *ftstore.Store, emb embedder.Embedder, reranker Reranker) *Searcher {
	return &Searcher{vector: vector, fts: fts, embedder: emb, reranker: reranker}
}

type embedOutcome struct {
	vector []float32
	err    error
}

type vectorOutcome struct {
	hits []vectorstore.ScoredID
	err  error
}

type textOutcome struct {
	hits []ftstore.Result
	err  error
}

// Search answers one hybrid (or vector-only) query. An empty index returns
// an empty slice, not an error. A filter that leaves zero results is also
// not an error.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrInvalidInput("query cannot be empty")
	}
	opts.normalize()

	kv := opts.K * 2
	if kv < 50 {
		kv = 50
	}
	kf := kv

	structural, structuralKind := detectStructural(query)

	if opts.Mode == ModeVector {
		vec, err := s.embedder.Embed(ctx, []string{query})
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		hits, err := s.vector.Search(ctx, vec[0], kv)
		if err != nil {
			return nil, fmt.Errorf("vector search: %w", err)
		}
		ids := make([]int64, len(hits))
		scores := make(map[int64]float64, len(hits))
		for i, h := range hits {
			ids[i] = h.ID
			scores[h.ID] = h.Score
		}
		return s.finish(ctx, ids, scores, query, opts)
	}

	embedCh := make(chan embedOutcome, 1)
	vectorCh := make(chan vectorOutcome, 1)
	textCh := make(chan textOutcome, 1)

	go func() {
		vec, err := s.embedder.Embed(ctx, []string{query})
		if err != nil {
			embedCh <- embedOutcome{err: err}
			return
		}
		embedCh <- embedOutcome{vector: vec[0]}
	}()

	go func() {
		select {
		case eo := <-embedCh:
			if eo.err != nil {
				vectorCh <- vectorOutcome{err: eo.err}
				return
			}
			hits, err := s.vector.Search(ctx, eo.vector, kv)
			vectorCh <- vectorOutcome{hits: hits, err: err}
		case <-ctx.Done():
			vectorCh <- vectorOutcome{err: ctx.Err()}
		}
	}()

	go func() {
		ftsOpts := ftstore.SearchOptions{Query: query, K: kf}
		if structural {
			ftsOpts.KindFilter = []types.ChunkKind{structuralKind}
		}
		hits, err := s.fts.SearchExact(ftsOpts)
		textCh <- textOutcome{hits: hits, err: err}
	}()

	var vr vectorOutcome
	var tr textOutcome
	var vecDone, textDone bool
	for !vecDone || !textDone {
		select {
		case vr = <-vectorCh:
			vecDone = true
		case tr = <-textCh:
			textDone = true
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if vr.err != nil && tr.err != nil {
		return nil, fmt.Errorf("search failed on both legs: vector=%v, text=%w", vr.err, tr.err)
	}

	vectorIDs := idsOf(vr.hits, func(h vectorstore.ScoredID) int64 { return h.ID })
	textIDs := idsOf(tr.hits, func(h ftstore.Result) int64 { return h.ID })
	fused, scores := fuseRanks(vectorIDs, textIDs, opts.RRFConstant)

	return s.finish(ctx, fused, scores, query, opts)
}

// finish hydrates fused ids into full results, optionally reranks, then
// applies filter_path, the per-file cap, and the final truncation to k, in
// that order.
func (s *Searcher) finish(ctx context.Context, ids []int64, scores map[int64]float64, query string, opts Options) ([]types.SearchResult, error) {
	hydrated := s.hydrate(ctx, ids, scores)

	if opts.Mode == ModeHybridRerank {
		top := hydrated
		rest := []types.SearchResult(nil)
		if len(hydrated) > opts.RerankTop {
			top = hydrated[:opts.RerankTop]
			rest = hydrated[opts.RerankTop:]
		}
		reranker := s.reranker
		if reranker != nil {
			candidates := make([]RerankCandidate, len(top))
			for i, r := range top {
				candidates[i] = RerankCandidate{Result: r, Score: r.Score}
			}
			reranked, err := reranker.Rerank(ctx, query, candidates)
			if err != nil {
				return nil, fmt.Errorf("rerank: %w", err)
			}
			top = make([]types.SearchResult, len(reranked))
			for i, c := range reranked {
				res := c.Result
				res.Score = c.Score
				top[i] = res
			}
		}
		hydrated = append(top, rest...)
	}

	if opts.FilterPath != "" {
		filtered := hydrated[:0:0]
		for _, r := range hydrated {
			if strings.HasPrefix(r.Path, opts.FilterPath) {
				filtered = append(filtered, r)
			}
		}
		hydrated = filtered
	}

	if opts.PerFile > 0 {
		hydrated = capPerFile(hydrated, opts.PerFile)
	}

	if len(hydrated) > opts.K {
		hydrated = hydrated[:opts.K]
	}
	return hydrated, nil
}

func (s *Searcher) hydrate(ctx context.Context, ids []int64, scores map[int64]float64) []types.SearchResult {
	out := make([]types.SearchResult, 0, len(ids))
	for _, id := range ids {
		c, err := s.vector.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, types.SearchResult{
			Path:      c.Path,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Kind:      c.Kind,
			Name:      c.Name,
			Signature: c.Signature,
			Score:     scores[id],
			Content:   c.Content,
		})
	}
	return out
}

// FindReferences looks up symbol via whole-word FTS match on content and
// name only, sorted by BM25 descending. No embedding is involved.
func (s *Searcher) FindReferences(ctx context.Context, symbol string, k int) ([]types.SearchResult, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, types.ErrInvalidInput("symbol cannot be empty")
	}
	if k <= 0 {
		k = DefaultK
	}

	hits, err := s.fts.FindReferences(symbol, k)
	if err != nil {
		return nil, fmt.Errorf("find references: %w", err)
	}

	ids := make([]int64, len(hits))
	scores := make(map[int64]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
		scores[h.ID] = h.Score
	}
	return s.hydrate(ctx, ids, scores), nil
}

func capPerFile(results []types.SearchResult, perFile int) []types.SearchResult {
	counts := make(map[string]int)
	out := results[:0:0]
	for _, r := range results {
		if counts[r.Path] >= perFile {
			continue
		}
		counts[r.Path]++
		out = append(out, r)
	}
	return out
}

func idsOf[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
