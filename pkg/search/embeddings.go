package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundprediction/trovato/pkg/embedder"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// ErrNoEmbedder is returned by operations that need the remote embedding
// capability when none is configured.
var ErrNoEmbedder = errors.New("no embedding client configured")

// DefaultPrecomputePageSize is the store page size for bulk precompute runs.
const DefaultPrecomputePageSize = 100

// EmbeddingResolver is the cache-or-compute layer for candidate vectors.
// Stored vectors are reused; missing ones are embedded remotely in one
// logical batch and persisted (on-demand mode) or simply counted and skipped
// (precomputed mode). Cache writes are idempotent per-id upserts, so
// concurrent searches racing on the same candidate converge on the same
// stored vector.
type EmbeddingResolver struct {
	store    store.Store
	embedder embedder.Client
	mode     types.EmbeddingMode
	logger   *slog.Logger
}

// NewEmbeddingResolver creates a resolver. A nil embedder restricts the
// resolver to stored vectors regardless of mode.
func NewEmbeddingResolver(st store.Store, emb embedder.Client, mode types.EmbeddingMode, logger *slog.Logger) *EmbeddingResolver {
	if mode == "" {
		mode = types.EmbeddingOnDemand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingResolver{
		store:    st,
		embedder: emb,
		mode:     mode,
		logger:   logger,
	}
}

// QueryEmbedding embeds the query text. Unlike Resolve, a failure here is
// returned to the caller: the engine uses it to skip the semantic path
// entirely and fall back to lexical-only ranking.
func (r *EmbeddingResolver) QueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if r.embedder == nil {
		return nil, ErrNoEmbedder
	}
	vec, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}
	return vec, nil
}

// Resolve returns a vector per candidate id, reusing stored vectors and
// filling gaps per the configured mode. It never fails: a store read error
// degrades to an empty cache, an embedding error leaves the misses at zero
// semantic score, and a single failed cache write is logged and skipped.
func (r *EmbeddingResolver) Resolve(ctx context.Context, candidates []types.Candidate) map[string][]float32 {
	if len(candidates) == 0 {
		return map[string][]float32{}
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	stored, err := r.store.GetEmbeddings(ctx, ids)
	if err != nil {
		r.logger.Warn("embedding lookup failed, continuing without stored vectors", "error", err)
		stored = make(map[string][]float32)
	}

	if r.mode == types.EmbeddingPrecomputed {
		if missing := len(candidates) - len(stored); missing > 0 {
			r.logger.Warn("candidates lack precomputed embeddings", "missing", missing)
		}
		return stored
	}

	missingIDs := make([]string, 0, len(candidates))
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := stored[c.ID]; ok {
			continue
		}
		missingIDs = append(missingIDs, c.ID)
		texts = append(texts, types.EmbeddingText(c.Name, c.Description))
	}
	if len(missingIDs) == 0 || r.embedder == nil {
		return stored
	}

	r.logger.Debug("embedding candidates", "count", len(missingIDs))
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		r.logger.Warn("batch embedding failed, misses keep zero semantic score", "error", err)
		return stored
	}

	for i, vec := range vectors {
		if i >= len(missingIDs) {
			break
		}
		id := missingIDs[i]
		if err := r.store.UpsertEmbedding(ctx, id, vec); err != nil {
			r.logger.Warn("could not persist embedding", "id", id, "error", err)
			continue
		}
		stored[id] = vec
	}
	return stored
}

// PrecomputeProgress reports the state of a bulk precompute walk after each
// page. LastID is the keyset cursor a later run can resume from.
type PrecomputeProgress struct {
	Processed int64
	Total     int64
	LastID    string
}

// PrecomputeOptions control a bulk precompute walk.
type PrecomputeOptions struct {
	// PageSize is the store page size; DefaultPrecomputePageSize when <= 0.
	PageSize int
	// ResumeAfter restarts the walk from a previous run's cursor.
	ResumeAfter string
	// OnPage, when set, observes progress after each page.
	OnPage func(PrecomputeProgress)
}

// Precompute walks every package without a stored vector in fixed-size
// pages, embeds each page in one batch, and persists the results. A failed
// batch is logged and the walk moves on; those rows stay missing for a later
// run. Returns the number of vectors persisted.
func (r *EmbeddingResolver) Precompute(ctx context.Context, opts PrecomputeOptions) (int64, error) {
	if r.embedder == nil {
		return 0, ErrNoEmbedder
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPrecomputePageSize
	}

	total, err := r.store.CountMissingEmbeddings(ctx)
	if err != nil {
		return 0, fmt.Errorf("count missing embeddings: %w", err)
	}
	r.logger.Info("precomputing missing embeddings", "missing", total, "page_size", pageSize)

	var processed int64
	afterID := opts.ResumeAfter
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		page, err := r.store.ListMissingEmbeddings(ctx, afterID, pageSize)
		if err != nil {
			return processed, fmt.Errorf("list missing embeddings: %w", err)
		}
		if len(page) == 0 {
			break
		}

		texts := make([]string, len(page))
		for i, pkg := range page {
			texts[i] = pkg.EmbeddingText()
		}

		vectors, err := r.embedder.Embed(ctx, texts)
		if err != nil {
			r.logger.Warn("batch embedding failed, skipping page", "after_id", afterID, "error", err)
		} else {
			for i, vec := range vectors {
				if i >= len(page) {
					break
				}
				id := page[i].ID
				if err := r.store.UpsertEmbedding(ctx, id, vec); err != nil {
					r.logger.Warn("could not persist embedding", "id", id, "error", err)
					continue
				}
				processed++
			}
		}

		afterID = page[len(page)-1].ID
		r.logger.Info("precompute progress", "processed", processed, "missing", total)
		if opts.OnPage != nil {
			opts.OnPage(PrecomputeProgress{Processed: processed, Total: total, LastID: afterID})
		}
	}

	r.logger.Info("precompute finished", "persisted", processed)
	return processed, nil
}

// Reset nulls out the stored vector for one package so the next resolution
// recomputes it.
func (r *EmbeddingResolver) Reset(ctx context.Context, id string) error {
	return r.store.ResetEmbedding(ctx, id)
}

// ResetAll nulls out every stored vector. Used after changing the embedding
// model or the embedding-text format. Returns the number of rows cleared.
func (r *EmbeddingResolver) ResetAll(ctx context.Context) (int64, error) {
	return r.store.ResetAllEmbeddings(ctx)
}
