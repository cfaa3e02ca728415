package searcher

import (
	"context"
	"sort"
	"strings"

	"github.com/pleme-io/codesearch/pkg/types"
)

// RerankCandidate pairs a hydrated search result with a score a Reranker
// may overwrite.
type RerankCandidate struct {
	Result types.SearchResult
	Score  float64
}

// Reranker reorders candidates by a second-pass relevance signal. The only
// shipped implementation is LexicalOverlapReranker; the interface exists so
// a real cross-encoder could be wired in later without touching Searcher.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankCandidate, error)
}

// LexicalOverlapReranker approximates a cross-encoder with a Jaccard-style
// token-overlap score between the query and each candidate's content. It
// requires no model load, so mode=hybrid+rerank is exercised by default.
type LexicalOverlapReranker struct{}

// NewLexicalOverlapReranker returns the default reranker.
func NewLexicalOverlapReranker() *LexicalOverlapReranker {
	return &LexicalOverlapReranker{}
}

// Rerank implements Reranker.
func (r *LexicalOverlapReranker) Rerank(_ context.Context, query string, candidates []RerankCandidate) ([]RerankCandidate, error) {
	qTokens := tokenSet(query)
	out := make([]RerankCandidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Score = jaccard(qTokens, tokenSet(out[i].Result.Content))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
