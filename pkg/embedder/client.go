package embedder

import "context"

// Client defines the interface for text embedding operations.
type Client interface {
	// Embed generates embeddings for the given texts, preserving input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds configuration for embedding clients
type Config struct {
	Model      string `json:"model"`
	BaseURL    string `json:"base_url,omitempty"` // Custom base URL for OpenAI-compatible services
	Dimensions int    `json:"dimensions,omitempty"`
	BatchSize  int    `json:"batch_size,omitempty"`
}
