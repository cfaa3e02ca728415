package embedder

import (
	"os"
	"strconv"
)

// Config holds embedder construction parameters, sourced from the
// environment by NewFromEnv or supplied directly by the engine handle.
type Config struct {
	DaemonURL        string // empty selects the deterministic provider
	Model            string
	Dimension        int
	CacheBudgetBytes int64
	BatchSize        int // 0 selects MaxBatchSize
}

const (
	envDaemonURL = "CODESEARCH_EMBED_DAEMON_URL"
	envModel     = "CODESEARCH_EMBED_MODEL"
	envDimension = "CODESEARCH_EMBED_DIMENSION"

	// EnvCacheMaxMemoryMB and EnvBatchSize are the core's documented
	// environment-variable contract, consumed here rather than under a
	// project-prefixed name.
	EnvCacheMaxMemoryMB = "CACHE_MAX_MEMORY_MB"
	EnvBatchSize        = "BATCH_SIZE"

	defaultDaemonModel    = "nomic-embed-text"
	defaultDimension      = 768
	defaultCacheMaxMemory = 500 // MiB
)

// NewFromEnv builds a CachedEmbedder from environment variables. With no
// CODESEARCH_EMBED_DAEMON_URL set, it falls back to the deterministic
// provider, matching the "no daemon running" case the specification calls
// out explicitly.
func NewFromEnv() *CachedEmbedder {
	cfg := Config{
		DaemonURL:        os.Getenv(envDaemonURL),
		Model:            os.Getenv(envModel),
		Dimension:        envInt(envDimension, defaultDimension),
		CacheBudgetBytes: envInt64(EnvCacheMaxMemoryMB, defaultCacheMaxMemory) * 1024 * 1024,
		BatchSize:        envInt(EnvBatchSize, 0),
	}
	return New(cfg)
}

// New builds a CachedEmbedder from an explicit Config.
func New(cfg Config) *CachedEmbedder {
	dim := cfg.Dimension
	if dim <= 0 {
		dim = defaultDimension
	}

	var inner Embedder
	if cfg.DaemonURL != "" {
		model := cfg.Model
		if model == "" {
			model = defaultDaemonModel
		}
		inner = NewDaemonEmbedder(cfg.DaemonURL, model, dim)
	} else {
		inner = NewDeterministicEmbedder(dim)
	}

	budget := cfg.CacheBudgetBytes
	if budget <= 0 {
		budget = DefaultCacheBudgetBytes
	}
	return NewCachedEmbedderWithBatchSize(inner, NewCache(budget), cfg.BatchSize)
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
