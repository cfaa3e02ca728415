package ftstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/codesearch/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fts"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func chunk(id int64, name, content string, kind types.ChunkKind) types.Chunk {
	return types.Chunk{
		ID:        id,
		Path:      "pkg/auth.go",
		StartLine: 1,
		EndLine:   5,
		Kind:      kind,
		Name:      name,
		Signature: "func " + name + "()",
		Content:   content,
		Language:  "go",
	}
}

func TestUpsertAndSearchByName(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert([]types.Chunk{
		chunk(1, "authenticateUser", "func authenticateUser() { verify(token) }", types.KindFunction),
		chunk(2, "renderPage", "func renderPage() { write(html) }", types.KindFunction),
	}))

	results, err := s.SearchExact(SearchOptions{Query: "authenticate", K: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestUpsertAndSearchSnakeCase(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert([]types.Chunk{
		chunk(1, "authenticate_user", "fn authenticate_user() {}", types.KindFunction),
	}))

	results, err := s.SearchExact(SearchOptions{Query: "authenticate", K: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchExact_KindFilterExcludesOtherKinds(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert([]types.Chunk{
		chunk(1, "Handler", "type Handler struct{}", types.KindStruct),
		chunk(2, "Handler", "func Handler() {}", types.KindFunction),
	}))

	results, err := s.SearchExact(SearchOptions{Query: "Handler", K: 10, KindFilter: []types.ChunkKind{types.KindStruct}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert([]types.Chunk{
		chunk(1, "authenticateUser", "func authenticateUser() {}", types.KindFunction),
	}))
	require.NoError(t, s.Delete([]int64{1}))

	results, err := s.SearchExact(SearchOptions{Query: "authenticate", K: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindReferences_MatchesDefinitionAndCallSites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert([]types.Chunk{
		chunk(1, "authenticate", "func authenticate(u User) bool { return true }", types.KindFunction),
		chunk(2, "handleLogin", "func handleLogin() { authenticate(u) }", types.KindFunction),
		chunk(3, "handleLogout", "func handleLogout() { clearSession() }", types.KindFunction),
	}))

	results, err := s.FindReferences("authenticate", 10)
	require.NoError(t, err)
	var ids []int64
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}
