package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFromEnv_DefaultsWithNoEnvironment(t *testing.T) {
	c := NewFromEnv()
	assert.Equal(t, int64(defaultCacheMaxMemory)*1024*1024, c.cache.budget)
	assert.Equal(t, MaxBatchSize, c.batchSize)
}

func TestNewFromEnv_CacheMaxMemoryMBOverridesBudget(t *testing.T) {
	t.Setenv(EnvCacheMaxMemoryMB, "10")
	c := NewFromEnv()
	assert.Equal(t, int64(10*1024*1024), c.cache.budget)
}

func TestNewFromEnv_BatchSizeOverridesBatching(t *testing.T) {
	t.Setenv(EnvBatchSize, "8")
	c := NewFromEnv()
	assert.Equal(t, 8, c.batchSize)
}

func TestNewFromEnv_BatchSizeAboveMaxIsClamped(t *testing.T) {
	t.Setenv(EnvBatchSize, "1000")
	c := NewFromEnv()
	assert.Equal(t, MaxBatchSize, c.batchSize)
}
