package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicEmbedder_Deterministic(t *testing.T) {
	d := NewDeterministicEmbedder(32)
	ctx := context.Background()

	v1, err := d.Embed(ctx, []string{"func Foo() {}"})
	require.NoError(t, err)
	v2, err := d.Embed(ctx, []string{"func Foo() {}"})
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1[0], 32)
}

func TestDeterministicEmbedder_DifferentTextsDiffer(t *testing.T) {
	d := NewDeterministicEmbedder(32)
	ctx := context.Background()

	v, err := d.Embed(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.NotEqual(t, v[0], v[1])
}

func TestDeterministicEmbedder_VectorsAreNormalized(t *testing.T) {
	d := NewDeterministicEmbedder(16)
	v, err := d.Embed(context.Background(), []string{"normalize me"})
	require.NoError(t, err)

	var sumSq float64
	for _, x := range v[0] {
		sumSq += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sumSq, 1e-4)
}

func TestEmbed_RejectsEmptyBatch(t *testing.T) {
	d := NewDeterministicEmbedder(8)
	_, err := d.Embed(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTexts)
}

func TestEmbed_RejectsEmptyText(t *testing.T) {
	d := NewDeterministicEmbedder(8)
	_, err := d.Embed(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestComputeHash_Stable(t *testing.T) {
	assert.Equal(t, ComputeHash("same text"), ComputeHash("same text"))
	assert.NotEqual(t, ComputeHash("a"), ComputeHash("b"))
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	zero := make([]float32, 4)
	assert.Equal(t, zero, Normalize(zero))
}
