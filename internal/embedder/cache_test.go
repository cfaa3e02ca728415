package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := NewCache(1 << 20)
	vec := []float32{1, 2, 3, 4}
	c.Set("model-a", "hash-a", vec)

	got, ok := c.Get("model-a", "hash-a")
	require.True(t, ok)
	assert.Equal(t, vec, got)
}

func TestCache_MissOnDifferentModel(t *testing.T) {
	c := NewCache(1 << 20)
	c.Set("model-a", "hash-a", []float32{1, 2})
	_, ok := c.Get("model-b", "hash-a")
	assert.False(t, ok)
}

func TestCache_GetReturnsIndependentCopy(t *testing.T) {
	c := NewCache(1 << 20)
	c.Set("m", "h", []float32{1, 2, 3})

	got, _ := c.Get("m", "h")
	got[0] = 999

	again, _ := c.Get("m", "h")
	assert.Equal(t, float32(1), again[0])
}

func TestCache_EvictsOverBudget(t *testing.T) {
	// Each entry of dim 4 weighs 16 bytes; budget of 20 bytes holds one.
	c := NewCache(20)
	c.Set("m", "a", []float32{1, 2, 3, 4})
	c.Set("m", "b", []float32{5, 6, 7, 8})

	_, aOK := c.Get("m", "a")
	_, bOK := c.Get("m", "b")
	assert.False(t, aOK, "oldest entry should have been evicted")
	assert.True(t, bOK)
	assert.LessOrEqual(t, c.Weight(), int64(20))
}

func TestCache_Purge(t *testing.T) {
	c := NewCache(1 << 20)
	c.Set("m", "a", []float32{1, 2})
	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Weight())
}
