// Package embedder produces fixed-width, L2-normalized vectors for chunk
// text.
//
// CachedEmbedder is the entry point the rest of the engine uses: it
// batches requests up to MaxBatchSize texts, serves repeated content from
// a byte-budgeted Cache keyed by (model, content hash), and on a batch
// failure retries exactly once with the batch split into two halves
// before giving up.
//
// Two Embedder implementations back it. DaemonEmbedder talks to an
// already-running, on-box inference daemon over loopback HTTP, in the
// JSON batch request/response shape an Ollama-style server exposes.
// DeterministicEmbedder derives a stable vector from each text's content
// hash with no network call at all, for tests and for environments with
// no daemon running.
package embedder
