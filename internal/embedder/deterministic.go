package embedder

import (
	"context"
	"crypto/sha256"
)

// DefaultDeterministicDimension is the output width of DeterministicEmbedder
// when none is specified.
const DefaultDeterministicDimension = 384

// DeterministicEmbedder derives a stable, low-cost fake vector from each
// text's content hash. It exists purely for tests and for environments
// with no inference daemon running, so the rest of the pipeline can be
// exercised without a real model: same text always produces the same
// vector, and different texts produce different vectors with high
// probability, which is all the vector store and searcher need to be
// exercised correctly.
type DeterministicEmbedder struct {
	dimension int
}

// NewDeterministicEmbedder returns a DeterministicEmbedder producing
// vectors of the given dimension (DefaultDeterministicDimension if <= 0).
func NewDeterministicEmbedder(dimension int) *DeterministicEmbedder {
	if dimension <= 0 {
		dimension = DefaultDeterministicDimension
	}
	return &DeterministicEmbedder{dimension: dimension}
}

// Embed implements Embedder.
func (d *DeterministicEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Normalize(vectorFromText(t, d.dimension))
	}
	return out, nil
}

// Dimension implements Embedder.
func (d *DeterministicEmbedder) Dimension() int { return d.dimension }

// ModelID implements Embedder.
func (d *DeterministicEmbedder) ModelID() string { return "deterministic-local" }

// vectorFromText expands repeated SHA-256 digests of text across dim
// floats in [-1, 1).
func vectorFromText(text string, dim int) []float32 {
	vec := make([]float32, dim)
	block := sha256.Sum256([]byte(text))
	for i := 0; i < dim; i++ {
		if i > 0 && i%len(block) == 0 {
			block = sha256.Sum256(block[:])
		}
		vec[i] = float32(block[i%len(block)])/128.0 - 1.0
	}
	return vec
}
