package ftstore

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/pleme-io/codesearch/pkg/types"
)

// openRetryAttempts and the delay curve give the writer-open path the same
// bounded backoff used for index lock contention: antivirus and indexer
// services on the same host can hold a brief, transient lock on the bleve
// directory's files right as it is opened.
const (
	openRetryAttempts  = 5
	openRetryBaseDelay = 50 * time.Millisecond
	openRetryMaxDelay  = 2 * time.Second
)

// Result is one scored hit from a full-text query.
type Result struct {
	ID    int64
	Score float64
}

// SearchOptions configures SearchExact.
type SearchOptions struct {
	Query string
	K     int

	// KindFilter, when non-empty, restricts results to chunks of one of
	// these kinds (a MUST constraint), implementing the kind-intersection
	// policy for structural queries.
	KindFilter []types.ChunkKind
}

// Store is the full-text side of the dual index: a bleve index persisted
// under a directory, keyed by chunk ID.
type Store struct {
	index bleve.Index
}

// Open opens the full-text index at path, creating it with the code-aware
// mapping if it doesn't exist yet. A permission-denied failure — the shape
// an antivirus or desktop-search service leaves behind while it briefly
// holds the directory's files — is retried with bounded backoff instead of
// failing the whole engine open on what is usually a momentary lock.
func Open(path string) (*Store, error) {
	var lastErr error
	delay := openRetryBaseDelay
	for attempt := 0; attempt < openRetryAttempts; attempt++ {
		store, err := openOnce(path)
		if err == nil {
			return store, nil
		}
		if !os.IsPermission(err) {
			return nil, err
		}
		lastErr = err
		if attempt == openRetryAttempts-1 {
			break
		}
		time.Sleep(delay)
		delay *= 2
		if delay > openRetryMaxDelay {
			delay = openRetryMaxDelay
		}
	}
	return nil, fmt.Errorf("open full-text store %s after retries: %w", path, lastErr)
}

func openOnce(path string) (*Store, error) {
	idx, err := bleve.Open(path)
	if err == nil {
		return &Store{index: idx}, nil
	}
	if os.IsPermission(err) {
		return nil, err
	}

	im, mapErr := buildIndexMapping()
	if mapErr != nil {
		return nil, fmt.Errorf("build full-text mapping: %w", mapErr)
	}
	idx, err = bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("open full-text store: %w", err)
	}
	return &Store{index: idx}, nil
}

type ftDocument struct {
	Content    string `json:"content"`
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Breadcrumb string `json:"breadcrumb"`
	Path       string `json:"path"`
	Language   string `json:"language"`
	Kind       string `json:"kind"`
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Upsert indexes or reindexes every chunk in one batch. Every chunk must
// already have a non-zero ID (types.Chunk.ComputeID assigns it; within a
// file's commit the maintainer calls this before the vector store's upsert).
func (s *Store) Upsert(chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	batch := s.index.NewBatch()
	for _, c := range chunks {
		doc := ftDocument{
			Content:    c.Content,
			Name:       c.Name,
			Signature:  c.Signature,
			Breadcrumb: c.Breadcrumb,
			Path:       c.Path,
			Language:   c.Language,
			Kind:       string(c.Kind),
		}
		if err := batch.Index(docID(c.ID), doc); err != nil {
			return fmt.Errorf("index chunk %d: %w", c.ID, err)
		}
	}
	return s.index.Batch(batch)
}

// Delete removes the given chunk IDs from the index.
func (s *Store) Delete(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(docID(id))
	}
	return s.index.Batch(batch)
}

// SearchExact runs a BM25 query across the weighted field set, optionally
// intersected with a kind filter.
func (s *Store) SearchExact(opts SearchOptions) ([]Result, error) {
	k := opts.K
	if k <= 0 {
		k = 25
	}

	textQuery := weightedFieldQuery(opts.Query)

	var q query.Query = textQuery
	if len(opts.KindFilter) > 0 {
		kindQueries := make([]query.Query, 0, len(opts.KindFilter))
		for _, kind := range opts.KindFilter {
			tq := bleve.NewTermQuery(string(kind))
			tq.SetField("kind")
			kindQueries = append(kindQueries, tq)
		}
		kinds := bleve.NewDisjunctionQuery(kindQueries...)
		q = bleve.NewConjunctionQuery(textQuery, kinds)
	}

	req := bleve.NewSearchRequestOptions(q, k, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search full-text store: %w", err)
	}
	return toResults(res)
}

// FindReferences restricts the search to the content and name fields with
// whole-word matching, for symbol-to-callers lookup.
func (s *Store) FindReferences(symbol string, k int) ([]Result, error) {
	if k <= 0 {
		k = 25
	}

	content := bleve.NewMatchQuery(symbol)
	content.SetField("content")
	content.SetBoost(fieldWeights["content"])

	name := bleve.NewMatchQuery(symbol)
	name.SetField("name")
	name.SetBoost(fieldWeights["name"])

	q := bleve.NewDisjunctionQuery(content, name)
	req := bleve.NewSearchRequestOptions(q, k, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("find references: %w", err)
	}
	return toResults(res)
}

// Close closes the underlying bleve index.
func (s *Store) Close() error {
	return s.index.Close()
}

func weightedFieldQuery(queryText string) *query.DisjunctionQuery {
	queries := make([]query.Query, 0, len(fieldWeights))
	for field, weight := range fieldWeights {
		mq := bleve.NewMatchQuery(queryText)
		mq.SetField(field)
		mq.SetBoost(weight)
		queries = append(queries, mq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

func toResults(res *bleve.SearchResult) ([]Result, error) {
	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse chunk id %q: %w", hit.ID, err)
		}
		out = append(out, Result{ID: id, Score: hit.Score})
	}
	return out, nil
}
