package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DaemonEmbedder calls the batch embedding endpoint of an already-running,
// on-box inference daemon over loopback HTTP. No request ever leaves the
// machine.
type DaemonEmbedder struct {
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

// NewDaemonEmbedder targets baseURL (e.g. "http://127.0.0.1:11434"), an
// Ollama-shaped /api/embed endpoint serving model with the given output
// dimension.
func NewDaemonEmbedder(baseURL, model string, dimension int) *DaemonEmbedder {
	return &DaemonEmbedder{
		baseURL:   baseURL,
		model:     model,
		dimension: dimension,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

type daemonRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type daemonResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed implements Embedder by POSTing the whole batch and normalizing
// each returned vector.
func (d *DaemonEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	vecs, err := retryWithBackoff(ctx, DefaultRetryConfig(), func() ([][]float32, error) {
		return d.callDaemon(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	return vecs, nil
}

func (d *DaemonEmbedder) callDaemon(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(daemonRequest{Model: d.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded daemonResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", ErrDimensionMismatch, len(texts), len(decoded.Embeddings))
	}

	for i, v := range decoded.Embeddings {
		decoded.Embeddings[i] = Normalize(v)
	}
	return decoded.Embeddings, nil
}

// Dimension returns the configured output width.
func (d *DaemonEmbedder) Dimension() int { return d.dimension }

// ModelID returns the daemon's model name.
func (d *DaemonEmbedder) ModelID() string { return d.model }

// Close releases idle HTTP connections.
func (d *DaemonEmbedder) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
