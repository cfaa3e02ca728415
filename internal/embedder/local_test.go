package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemonEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req daemonRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := daemonResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{1, 0, 0, 0}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	d := NewDaemonEmbedder(srv.URL, "test-model", 4)
	vecs, err := d.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, vecs[0])
	assert.Equal(t, "test-model", d.ModelID())
	assert.Equal(t, 4, d.Dimension())
}

func TestDaemonEmbedder_DimensionMismatchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(daemonResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	d := NewDaemonEmbedder(srv.URL, "test-model", 4)
	_, err := d.Embed(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrProviderFailed)
}

func TestDaemonEmbedder_ServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDaemonEmbedder(srv.URL, "test-model", 4)
	_, err := d.Embed(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrProviderFailed)
}
