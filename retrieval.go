package trovato

import (
	"context"

	"github.com/soundprediction/trovato/pkg/types"
)

// Search runs the hybrid pipeline for one query. A nil options pointer
// selects the client defaults; an options struct with an empty Sort keeps
// the configured default profile. Remote-capability failures degrade
// invisibly; only backing-store errors surface.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) ([]types.Candidate, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = c.config.DefaultSort
	}

	if opts.Traditional {
		return c.engine.SearchTraditional(ctx, query, sortBy)
	}
	return c.engine.Search(ctx, query, sortBy)
}
