// Package manifest reads and writes the index directory's top-level
// manifest.json: the model identity, vector width, and chunker version an
// index was built with.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pleme-io/codesearch/pkg/types"
)

const fileName = "manifest.json"

// New returns a manifest stamped with the current schema and chunker
// versions for a freshly created index.
func New(modelID string, vectorDim int) *types.Manifest {
	return &types.Manifest{
		SchemaVersion:  types.CurrentSchemaVersion,
		ModelID:        modelID,
		VectorDim:      vectorDim,
		CreatedAt:      time.Now(),
		ChunkerVersion: types.CurrentChunkerVersion,
	}
}

// Path returns the manifest file's location under dbRoot.
func Path(dbRoot string) string {
	return filepath.Join(dbRoot, fileName)
}

// Load reads and validates the manifest at dbRoot. A missing file is
// reported as a NotFound error so callers can distinguish "no index yet"
// from a corrupt one.
func Load(dbRoot string) (*types.Manifest, error) {
	data, err := os.ReadFile(Path(dbRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewNotFound("manifest", err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, types.NewCorruption("manifest", fmt.Errorf("parse manifest: %w", err))
	}
	if err := m.Validate(); err != nil {
		return nil, types.NewCorruption("manifest", err)
	}
	return &m, nil
}

// Save writes m to dbRoot, creating the directory if needed.
func Save(dbRoot string, m *types.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dbRoot, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(Path(dbRoot), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
