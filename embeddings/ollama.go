package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "nomic-embed-text"
)

// OllamaClient calls Ollama's native embedding API.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ Client = (*OllamaClient)(nil)

func NewOllamaClient(host string) *OllamaClient {
	return NewOllamaClientWithConfig(ClientConfig{BaseURL: host, Timeout: 60})
}

func NewOllamaClientWithConfig(cfg ClientConfig) *OllamaClient {
	host := cfg.BaseURL
	if host == "" {
		host = defaultOllamaHost
	}
	// Accept both the bare host and an OpenAI-compatible /v1 URL.
	host = strings.TrimSuffix(host, "/")
	host = strings.TrimSuffix(host, "/v1")

	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaClient{
		baseURL: host,
		model:   model,
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Embed generates an embedding for a single input.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple inputs. Ollama's
// /api/embed endpoint processes one input per request.
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for _, text := range texts {
		reqBody := map[string]any{
			"model": c.model,
			"input": text,
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, string(respBody))
		}

		var result ollamaEmbedResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		resp.Body.Close()

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embeddings in response")
		}
		vectors = append(vectors, result.Embeddings[0])
	}

	return vectors, nil
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}
