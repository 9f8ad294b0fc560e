package trovato

import (
	"context"
	"errors"
	"fmt"

	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// AddPackage inserts or updates a package row. The store clears the stored
// embedding when the name or description changed, so the next search or
// precompute run re-embeds the new text.
func (c *Client) AddPackage(ctx context.Context, pkg *types.Package) error {
	if pkg == nil {
		return ErrInvalidPackage
	}
	if err := pkg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}
	return c.store.UpsertPackage(ctx, pkg)
}

// GetPackage retrieves a package by ID. Returns ErrPackageNotFound when absent.
func (c *Client) GetPackage(ctx context.Context, id string) (*types.Package, error) {
	pkg, err := c.store.GetPackage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, id)
	}
	return pkg, err
}

// Stats summarizes the indexed corpus: total packages, how many carry a
// stored embedding, and how many are missing one.
func (c *Client) Stats(ctx context.Context) (*store.Stats, error) {
	return c.store.Stats(ctx)
}

// Initialize ensures the backing schema and indices exist.
func (c *Client) Initialize(ctx context.Context) error {
	return c.store.Initialize(ctx)
}

// Close closes the client and all its connections.
func (c *Client) Close() error {
	return c.store.Close()
}
