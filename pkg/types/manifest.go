package types

import "time"

// CurrentSchemaVersion is the schema_version written into new manifests.
const CurrentSchemaVersion = 1

// CurrentChunkerVersion bumps whenever the chunking algorithm changes in a
// way that would produce different chunk boundaries for the same input; a
// mismatch against a stored manifest is a signal the index should be rebuilt
// rather than incrementally updated, though nothing in the core enforces
// that automatically today.
const CurrentChunkerVersion = 1

// Manifest is the process-wide singleton persisted alongside an index.
type Manifest struct {
	SchemaVersion  int       `json:"schema_version"`
	ModelID        string    `json:"model_id"`
	VectorDim      int       `json:"vector_dim"`
	CreatedAt      time.Time `json:"created_at"`
	ChunkerVersion int       `json:"chunker_version"`
}

// Validate checks the manifest invariants: a positive vector width and a
// non-empty model id.
func (m *Manifest) Validate() error {
	if m.ModelID == "" {
		return ErrInvalidInput("manifest model_id is required")
	}
	if m.VectorDim <= 0 {
		return ErrInvalidInput("manifest vector_dim must be positive")
	}
	return nil
}
