package trovato

import (
	"context"

	"github.com/soundprediction/trovato/pkg/search"
)

// PrecomputeEmbeddings walks every package without a stored vector in
// fixed-size pages, embeds each page in one batch, and persists the results.
// Failed pages are skipped and picked up by a later run. Returns the number
// of vectors persisted.
func (c *Client) PrecomputeEmbeddings(ctx context.Context, opts search.PrecomputeOptions) (int64, error) {
	return c.engine.Embeddings().Precompute(ctx, opts)
}

// ResetEmbedding clears the stored vector for one package so the next
// resolution recomputes it.
func (c *Client) ResetEmbedding(ctx context.Context, id string) error {
	return c.engine.Embeddings().Reset(ctx, id)
}

// ResetAllEmbeddings clears every stored vector and reports how many rows
// were affected. Used after changing the embedding model or the
// embedding-text format.
func (c *Client) ResetAllEmbeddings(ctx context.Context) (int64, error) {
	return c.engine.Embeddings().ResetAll(ctx)
}
