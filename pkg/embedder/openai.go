package embedder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is used when no embedding model is configured.
	DefaultModel = "text-embedding-3-small"
	// DefaultBatchSize bounds how many texts go into one embeddings request.
	DefaultBatchSize = 100
	// DefaultDimensions is used for models with no known dimensionality.
	DefaultDimensions = 1536
)

// modelDimensions maps known OpenAI embedding models to their output size.
var modelDimensions = map[string]int{
	"text-embedding-ada-002": 1536,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// OpenAIEmbedder implements the Client interface using OpenAI's embeddings API.
// Supports OpenAI-compatible services through custom BaseURL configuration.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	batchSize  int
}

// NewOpenAIEmbedder creates a new OpenAI embedding client.
func NewOpenAIEmbedder(apiKey string, config Config) *OpenAIEmbedder {
	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	dimensions := config.Dimensions
	if dimensions == 0 {
		if d, ok := modelDimensions[model]; ok {
			dimensions = d
		} else {
			dimensions = DefaultDimensions
		}
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var client *openai.Client
	if config.BaseURL != "" {
		if apiKey == "" {
			apiKey = "dummy-key"
		}
		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = resolveBaseURL(config.BaseURL)
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(apiKey)
	}

	return &OpenAIEmbedder{
		client:     client,
		model:      model,
		dimensions: dimensions,
		batchSize:  batchSize,
	}
}

// Embed generates embeddings for the given texts. Inputs are sent in batches
// and each batch's vectors are reordered by the service-reported index, so
// the result lines up with the input slice.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embeddings request failed: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("embeddings response size mismatch: got %d, want %d", len(resp.Data), end-start)
		}

		// Services may return batch items out of order.
		sort.Slice(resp.Data, func(i, j int) bool {
			return resp.Data[i].Index < resp.Data[j].Index
		})
		for _, item := range resp.Data {
			embeddings = append(embeddings, item.Embedding)
		}
	}

	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (e *OpenAIEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// Dimensions returns the number of dimensions in the embeddings.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close cleans up resources (no-op for OpenAI client).
func (e *OpenAIEmbedder) Close() error {
	return nil
}

// resolveBaseURL appends the conventional /v1 path when the base URL does not
// already carry an API path component.
func resolveBaseURL(baseURL string) string {
	for _, path := range []string{"/v1", "/api", "/v1/", "/api/"} {
		if strings.HasSuffix(baseURL, path) {
			return baseURL
		}
	}
	return baseURL + "/v1"
}
