package trovato

import (
	"context"

	"github.com/soundprediction/trovato/pkg/search"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// This file defines focused interfaces that follow the Interface Segregation Principle.
// The main Trovato interface is composed from these smaller interfaces.
// Consumers should depend on the smallest interface that meets their needs.

// PackageSearcher provides read-only search over the package index.
// Use this interface when you only need to run queries.
type PackageSearcher interface {
	// Search runs the hybrid pipeline for one query and returns up to 100
	// candidates ordered by final score descending. Options may be nil.
	Search(ctx context.Context, query string, opts *SearchOptions) ([]types.Candidate, error)
}

// CatalogManager provides operations for maintaining the package catalog.
// Use this interface when you only need to add or look up packages.
type CatalogManager interface {
	// AddPackage inserts or updates a package in the index. A change to the
	// name or description clears its stored embedding.
	AddPackage(ctx context.Context, pkg *types.Package) error

	// GetPackage retrieves a package by ID.
	GetPackage(ctx context.Context, id string) (*types.Package, error)

	// Stats summarizes the indexed corpus.
	Stats(ctx context.Context) (*store.Stats, error)
}

// EmbeddingMaintainer provides bulk operations on the embedding cache.
// Use this interface for offline maintenance jobs.
type EmbeddingMaintainer interface {
	// PrecomputeEmbeddings walks every package without a stored vector,
	// embeds them in batches, and persists the results.
	PrecomputeEmbeddings(ctx context.Context, opts search.PrecomputeOptions) (int64, error)

	// ResetEmbedding clears the stored vector for one package so the next
	// resolution recomputes it.
	ResetEmbedding(ctx context.Context, id string) error

	// ResetAllEmbeddings clears every stored vector. Used after changing
	// the embedding model.
	ResetAllEmbeddings(ctx context.Context) (int64, error)
}

// Admin provides lifecycle operations for the backing store.
// Use this interface for startup and shutdown tasks.
type Admin interface {
	// Initialize ensures the backing schema and indices exist.
	Initialize(ctx context.Context) error

	// Close closes all connections and cleans up resources.
	Close() error
}

// Ensure Trovato composes all focused interfaces and Client satisfies them.
// This compile-time check keeps the composition honest.
var _ interface {
	PackageSearcher
	CatalogManager
	EmbeddingMaintainer
	Admin
} = (Trovato)(nil)

var _ Trovato = (*Client)(nil)
