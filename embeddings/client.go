// Package embeddings provides HTTP clients for embedding models. The
// store never calls these itself; it treats vectors as opaque.
package embeddings

import (
	"context"
	"net/http"
	"time"
)

// Client produces vector embeddings for text.
type Client interface {
	// Embed returns the embedding of a single input.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout int
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout: 60,
	}
}

func newHTTPClient(timeoutSeconds int) *http.Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}
