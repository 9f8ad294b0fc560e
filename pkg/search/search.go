package search

import (
	"context"
	"log/slog"

	"github.com/soundprediction/trovato/pkg/embedder"
	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// Engine is the hybrid retrieval-and-rerank pipeline. One Engine serves many
// concurrent Search calls; the stages inside a single call run strictly in
// sequence.
type Engine struct {
	rewriter    *Rewriter
	retriever   *Retriever
	embeddings  *EmbeddingResolver
	traditional *TraditionalSearcher
	logger      *slog.Logger
}

// Options tune engine construction. The zero value is usable.
type Options struct {
	// StopWords overrides the local keyword-extraction stop-word set.
	StopWords StopWords
	// EmbeddingMode selects on-demand or precomputed vector resolution.
	EmbeddingMode types.EmbeddingMode
	// Logger receives pipeline diagnostics.
	Logger *slog.Logger
}

// NewEngine wires the pipeline over a backing store. The chat client and the
// embedder are both optional: a nil chat client degrades rewriting to the
// local fallback, a nil embedder degrades ranking to lexical-only order.
func NewEngine(st store.Store, chat nlp.Client, emb embedder.Client, opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		rewriter:    NewRewriter(chat, opts.StopWords, logger),
		retriever:   NewRetriever(st, logger),
		embeddings:  NewEmbeddingResolver(st, emb, opts.EmbeddingMode, logger),
		traditional: NewTraditionalSearcher(st, logger),
		logger:      logger,
	}
}

// Embeddings exposes the cache layer for maintenance operations: bulk
// precompute and resets.
func (e *Engine) Embeddings() *EmbeddingResolver {
	return e.embeddings
}

// Search runs the full pipeline for one query and returns up to 100
// candidates ordered by FinalScore descending. Remote-capability failures
// degrade invisibly; only backing-store errors surface. An empty query
// returns an empty list.
func (e *Engine) Search(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error) {
	normalized := NormalizeQuery(query)
	if normalized.Terms == "" {
		return nil, nil
	}

	terms := normalized.Terms
	if normalized.NaturalLanguage {
		e.logger.Debug("natural-language query detected", "query", query)
		terms = e.rewriter.ExtractKeywords(ctx, terms)
	}
	keywords := e.rewriter.Rewrite(ctx, terms)
	e.logger.Debug("query rewritten", "query", query, "keywords", keywords)

	candidates, err := e.retriever.Retrieve(ctx, keywords)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	// Similarity is scored against the query as typed, not the rewritten
	// keywords: the keywords are shaped for the lexical index, the raw
	// query carries the intent.
	queryVec, err := e.embeddings.QueryEmbedding(ctx, query)
	if err != nil {
		e.logger.Warn("query embedding unavailable, ranking lexical-only", "error", err)
		return rankLexicalOnly(candidates), nil
	}

	vectors := e.embeddings.Resolve(ctx, candidates)
	return rankHybrid(candidates, queryVec, vectors, sortBy), nil
}

// SearchTraditional runs the no-remote-capability path: multi-variant
// keyword matching with heuristic strategy weights.
func (e *Engine) SearchTraditional(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error) {
	return e.traditional.Search(ctx, query, sortBy)
}
