package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/codesearch/pkg/types"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := New("deterministic-local", 384)

	require.NoError(t, Save(dir, m))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, m.ModelID, loaded.ModelID)
	assert.Equal(t, m.VectorDim, loaded.VectorDim)
	assert.Equal(t, m.SchemaVersion, loaded.SchemaVersion)
}

func TestLoadMissingIsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	cat, ok := types.CategoryOf(err)
	require.True(t, ok)
	assert.Equal(t, types.CategoryNotFound, cat)
}

func TestLoadCorruptJSONIsCorruption(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(Path(dir), []byte("not json"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	cat, ok := types.CategoryOf(err)
	require.True(t, ok)
	assert.Equal(t, types.CategoryCorruption, cat)
}

func TestSaveRejectsInvalidManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	bad := &types.Manifest{}
	err := Save(dir, bad)
	assert.Error(t, err)
}
