package store

import (
	"context"
	"errors"
	"time"

	"github.com/soundprediction/trovato/pkg/types"
)

// ErrNotFound is returned when a requested package does not exist.
var ErrNotFound = errors.New("package not found")

// Config holds configuration options for the store's connection pool.
type Config struct {
	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 25
	MaxOpenConns int

	// MaxIdleConns is the maximum number of connections in the idle connection pool.
	// Default: 5
	MaxIdleConns int

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	// Default: 5 minutes
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Stats summarizes the indexed corpus.
type Stats struct {
	Packages int64 `json:"packages"`
	Embedded int64 `json:"embedded"`
	Missing  int64 `json:"missing"`
}

// Store defines the interface for the package index backing the engine.
//
// Retrieval methods return candidates with LexicalScore populated from the
// database rank; semantic and final scores are filled in by the caller.
type Store interface {
	// Initialize ensures the database schema exists.
	Initialize(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// --- Retrieval ---

	// SearchTSQuery ranks packages against a prebuilt to_tsquery expression.
	SearchTSQuery(ctx context.Context, tsquery string, limit int) ([]types.Candidate, error)

	// SearchExact ranks packages by literal name/description matching.
	SearchExact(ctx context.Context, term string, limit int) ([]types.Candidate, error)

	// SearchLoose ranks packages with websearch_to_tsquery, falling back to
	// plainto_tsquery when the query cannot be parsed.
	SearchLoose(ctx context.Context, query string, limit int) ([]types.Candidate, error)

	// SearchPhrase ranks packages with phraseto_tsquery.
	SearchPhrase(ctx context.Context, query string, limit int) ([]types.Candidate, error)

	// --- Embeddings ---

	// GetEmbeddings returns the stored embeddings for the given IDs.
	// IDs without a stored embedding are absent from the result.
	GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error)

	// UpsertEmbedding stores the embedding for a package.
	UpsertEmbedding(ctx context.Context, id string, embedding []float32) error

	// ResetEmbedding clears the stored embedding for one package.
	ResetEmbedding(ctx context.Context, id string) error

	// ResetAllEmbeddings clears every stored embedding and reports how many
	// rows were affected.
	ResetAllEmbeddings(ctx context.Context) (int64, error)

	// ListMissingEmbeddings pages through packages without an embedding,
	// ordered by ID, starting after afterID.
	ListMissingEmbeddings(ctx context.Context, afterID string, limit int) ([]types.Package, error)

	// CountMissingEmbeddings reports how many packages have no embedding.
	CountMissingEmbeddings(ctx context.Context) (int64, error)

	// --- Packages ---

	// UpsertPackage inserts or updates a package row. A change to the name or
	// description clears the stored embedding so it gets recomputed.
	UpsertPackage(ctx context.Context, pkg *types.Package) error

	// GetPackage retrieves a package by ID. Returns ErrNotFound when absent.
	GetPackage(ctx context.Context, id string) (*types.Package, error)

	// Stats summarizes the indexed corpus.
	Stats(ctx context.Context) (*Stats, error)
}
