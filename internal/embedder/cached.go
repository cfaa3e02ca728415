package embedder

import (
	"context"
	"fmt"
)

// CachedEmbedder wraps an Embedder with the byte-budgeted Cache and the
// batch-halving retry policy: a failed batch is retried exactly once,
// split into two half-size calls; if either half also fails, the whole
// request fails. Cache lookups and batching happen here so every
// Embedder implementation (daemon, deterministic) only has to answer a
// single Embed call.
type CachedEmbedder struct {
	inner     Embedder
	cache     *Cache
	batchSize int
}

// NewCachedEmbedder wraps inner with cache, batching requests up to
// MaxBatchSize texts per underlying call.
func NewCachedEmbedder(inner Embedder, cache *Cache) *CachedEmbedder {
	return NewCachedEmbedderWithBatchSize(inner, cache, 0)
}

// NewCachedEmbedderWithBatchSize is NewCachedEmbedder with an explicit
// batch width; a non-positive size selects MaxBatchSize, matching the
// BATCH_SIZE environment variable's "auto if unset" contract.
func NewCachedEmbedderWithBatchSize(inner Embedder, cache *Cache, batchSize int) *CachedEmbedder {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &CachedEmbedder{inner: inner, cache: cache, batchSize: batchSize}
}

// Dimension implements Embedder.
func (c *CachedEmbedder) Dimension() int { return c.inner.Dimension() }

// ModelID implements Embedder.
func (c *CachedEmbedder) ModelID() string { return c.inner.ModelID() }

// Embed returns one vector per text, in input order, serving cache hits
// without touching the underlying provider and batching the rest.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	model := c.inner.ModelID()
	out := make([][]float32, len(texts))
	hashes := make([]string, len(texts))
	var missIdx []int
	var missTexts []string

	for i, t := range texts {
		h := ComputeHash(t)
		hashes[i] = h
		if v, ok := c.cache.Get(model, h); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	for start := 0; start < len(missTexts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(missTexts) {
			end = len(missTexts)
		}
		batch := missTexts[start:end]
		vecs, err := c.embedWithHalving(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		for j, v := range vecs {
			idx := missIdx[start+j]
			out[idx] = v
			c.cache.Set(model, hashes[idx], v)
		}
	}

	return out, nil
}

// embedWithHalving calls the provider once; on failure it retries exactly
// once with the batch split into two halves, failing the whole call if
// either half also fails.
func (c *CachedEmbedder) embedWithHalving(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := c.inner.Embed(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	if len(texts) == 1 {
		return nil, err
	}

	mid := len(texts) / 2
	first, err := c.inner.Embed(ctx, texts[:mid])
	if err != nil {
		return nil, fmt.Errorf("retry with halved batch: %w", err)
	}
	second, err := c.inner.Embed(ctx, texts[mid:])
	if err != nil {
		return nil, fmt.Errorf("retry with halved batch: %w", err)
	}
	return append(first, second...), nil
}
