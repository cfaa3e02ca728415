package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	dim       int
	failCount int
	calls     [][]string
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, append([]string{}, texts...))
	if s.failCount > 0 {
		s.failCount--
		return nil, errors.New("injected failure")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 0, 0, 0}
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int  { return s.dim }
func (s *stubEmbedder) ModelID() string { return "stub" }

func TestCachedEmbedder_CachesAcrossCalls(t *testing.T) {
	stub := &stubEmbedder{dim: 4}
	c := NewCachedEmbedder(stub, NewCache(1<<20))

	_, err := c.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)

	assert.Len(t, stub.calls, 1, "second call should be served entirely from cache")
}

func TestCachedEmbedder_PartialCacheHit(t *testing.T) {
	stub := &stubEmbedder{dim: 4}
	c := NewCachedEmbedder(stub, NewCache(1<<20))

	_, err := c.Embed(context.Background(), []string{"one"})
	require.NoError(t, err)

	vecs, err := c.Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Len(t, stub.calls, 2)
	assert.Equal(t, []string{"two"}, stub.calls[1], "only the miss should reach the provider")
}

func TestCachedEmbedder_HalvesBatchOnFailure(t *testing.T) {
	stub := &stubEmbedder{dim: 4, failCount: 1}
	c := NewCachedEmbedder(stub, NewCache(1<<20))

	vecs, err := c.Embed(context.Background(), []string{"a", "bb", "ccc", "dddd"})
	require.NoError(t, err)
	assert.Len(t, vecs, 4)
	// first call fails whole batch, then two half-batches succeed
	assert.Len(t, stub.calls, 3)
}

func TestCachedEmbedder_FailsAfterHalvingBothFail(t *testing.T) {
	stub := &stubEmbedder{dim: 4, failCount: 3}
	c := NewCachedEmbedder(stub, NewCache(1<<20))

	_, err := c.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestCachedEmbedder_SingleItemFailureDoesNotHalve(t *testing.T) {
	stub := &stubEmbedder{dim: 4, failCount: 1}
	c := NewCachedEmbedder(stub, NewCache(1<<20))

	_, err := c.Embed(context.Background(), []string{"only"})
	assert.Error(t, err)
	assert.Len(t, stub.calls, 1)
}
