package trovato

import (
	"errors"
	"log/slog"

	"github.com/soundprediction/trovato/pkg/embedder"
	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/search"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// Trovato is the main interface for the hybrid package-search engine.
// It combines lexical retrieval over a text index with embedding
// similarity, fusing both scores into a single ranking.
type Trovato interface {
	PackageSearcher
	CatalogManager
	EmbeddingMaintainer
	Admin
}

// SearchOptions tune a single Search call. A nil options pointer selects
// the client defaults.
type SearchOptions struct {
	// Sort selects the fusion-weight profile. Empty selects the client's
	// configured default.
	Sort types.SortCriteria
	// Traditional forces the no-remote-capability path: multi-variant
	// keyword matching with heuristic weights, no rewriting, no embeddings.
	Traditional bool
}

// Client is the main implementation of the Trovato interface.
type Client struct {
	store    store.Store
	nlp      nlp.Client
	embedder embedder.Client
	engine   *search.Engine
	config   *Config
	logger   *slog.Logger
}

// Config holds configuration for the Trovato client.
type Config struct {
	// DefaultSort is the fusion-weight profile used when a search does
	// not name one. Empty selects SortComprehensive.
	DefaultSort types.SortCriteria
	// EmbeddingMode selects on-demand or precomputed vector resolution.
	// Empty selects EmbeddingOnDemand.
	EmbeddingMode types.EmbeddingMode
	// StopWords overrides the keyword-extraction stop-word set used when
	// no chat capability is available.
	StopWords search.StopWords
}

// NewClient creates a new Trovato client over a backing store. The chat
// client and the embedder are both optional: a nil chat client degrades
// query rewriting to the local heuristics, a nil embedder degrades ranking
// to lexical-only order. The store is required.
func NewClient(st store.Store, nlpClient nlp.Client, embedderClient embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if st == nil {
		return nil, ErrNoStore
	}
	if config == nil {
		config = &Config{}
	}
	if config.DefaultSort == "" {
		config.DefaultSort = types.SortComprehensive
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine := search.NewEngine(st, nlpClient, embedderClient, &search.Options{
		StopWords:     config.StopWords,
		EmbeddingMode: config.EmbeddingMode,
		Logger:        logger,
	})

	return &Client{
		store:    st,
		nlp:      nlpClient,
		embedder: embedderClient,
		engine:   engine,
		config:   config,
		logger:   logger,
	}, nil
}

// GetStore returns the underlying backing store
func (c *Client) GetStore() store.Store {
	return c.store
}

// GetNLP returns the chat completion client
func (c *Client) GetNLP() nlp.Client {
	return c.nlp
}

// GetEmbedder returns the embedder client
func (c *Client) GetEmbedder() embedder.Client {
	return c.embedder
}

// GetEngine returns the search engine
func (c *Client) GetEngine() *search.Engine {
	return c.engine
}

var (
	// ErrNoStore is returned when a client is constructed without a backing store.
	ErrNoStore = errors.New("backing store is required")
	// ErrPackageNotFound is returned when a package is not found.
	ErrPackageNotFound = errors.New("package not found")
	// ErrInvalidPackage is returned when a package fails validation.
	ErrInvalidPackage = errors.New("invalid package")
)
