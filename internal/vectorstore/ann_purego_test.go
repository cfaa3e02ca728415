//go:build purego || !sqlite_vec

package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeDeserializeVectorRoundTrip(t *testing.T) {
	v := []float32{0.5, -1.25, 3.0, 0}
	assert.Equal(t, v, deserializeVector(serializeVector(v)))
}

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-6)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
}
