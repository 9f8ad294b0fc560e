package handlers

import (
	"context"

	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/search"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// mockTrovato implements trovato.Trovato with overridable behavior per test.
type mockTrovato struct {
	searchFn     func(ctx context.Context, query string, opts *trovato.SearchOptions) ([]types.Candidate, error)
	addPackageFn func(ctx context.Context, pkg *types.Package) error
	getPackageFn func(ctx context.Context, id string) (*types.Package, error)
	statsFn      func(ctx context.Context) (*store.Stats, error)
}

var _ trovato.Trovato = (*mockTrovato)(nil)

func (m *mockTrovato) Search(ctx context.Context, query string, opts *trovato.SearchOptions) ([]types.Candidate, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, opts)
	}
	return []types.Candidate{}, nil
}

func (m *mockTrovato) AddPackage(ctx context.Context, pkg *types.Package) error {
	if m.addPackageFn != nil {
		return m.addPackageFn(ctx, pkg)
	}
	return nil
}

func (m *mockTrovato) GetPackage(ctx context.Context, id string) (*types.Package, error) {
	if m.getPackageFn != nil {
		return m.getPackageFn(ctx, id)
	}
	return nil, trovato.ErrPackageNotFound
}

func (m *mockTrovato) Stats(ctx context.Context) (*store.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &store.Stats{}, nil
}

func (m *mockTrovato) PrecomputeEmbeddings(ctx context.Context, opts search.PrecomputeOptions) (int64, error) {
	return 0, nil
}

func (m *mockTrovato) ResetEmbedding(ctx context.Context, id string) error {
	return nil
}

func (m *mockTrovato) ResetAllEmbeddings(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockTrovato) Initialize(ctx context.Context) error {
	return nil
}

func (m *mockTrovato) Close() error {
	return nil
}
