package search

import (
	"context"
	"sync"

	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

// mockStore implements store.Store with per-test overridable behavior.
// Unset functions return empty results. Calls that mutate state are recorded
// for assertions.
type mockStore struct {
	mu sync.Mutex

	searchTSQueryFn   func(ctx context.Context, tsquery string, limit int) ([]types.Candidate, error)
	searchExactFn     func(ctx context.Context, term string, limit int) ([]types.Candidate, error)
	searchLooseFn     func(ctx context.Context, query string, limit int) ([]types.Candidate, error)
	searchPhraseFn    func(ctx context.Context, query string, limit int) ([]types.Candidate, error)
	getEmbeddingsFn   func(ctx context.Context, ids []string) (map[string][]float32, error)
	upsertEmbeddingFn func(ctx context.Context, id string, embedding []float32) error
	listMissingFn     func(ctx context.Context, afterID string, limit int) ([]types.Package, error)
	countMissingFn    func(ctx context.Context) (int64, error)
	resetFn           func(ctx context.Context, id string) error
	resetAllFn        func(ctx context.Context) (int64, error)

	tsQueries         []string
	exactQueries      []string
	looseQueries      []string
	phraseQueries     []string
	getEmbeddingCalls int
	upserts           map[string][]float32
	listAfterIDs      []string
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{upserts: make(map[string][]float32)}
}

func (m *mockStore) Initialize(ctx context.Context) error { return nil }
func (m *mockStore) Close() error                         { return nil }

func (m *mockStore) SearchTSQuery(ctx context.Context, tsquery string, limit int) ([]types.Candidate, error) {
	m.mu.Lock()
	m.tsQueries = append(m.tsQueries, tsquery)
	m.mu.Unlock()
	if m.searchTSQueryFn != nil {
		return m.searchTSQueryFn(ctx, tsquery, limit)
	}
	return nil, nil
}

func (m *mockStore) SearchExact(ctx context.Context, term string, limit int) ([]types.Candidate, error) {
	m.mu.Lock()
	m.exactQueries = append(m.exactQueries, term)
	m.mu.Unlock()
	if m.searchExactFn != nil {
		return m.searchExactFn(ctx, term, limit)
	}
	return nil, nil
}

func (m *mockStore) SearchLoose(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	m.mu.Lock()
	m.looseQueries = append(m.looseQueries, query)
	m.mu.Unlock()
	if m.searchLooseFn != nil {
		return m.searchLooseFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockStore) SearchPhrase(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	m.mu.Lock()
	m.phraseQueries = append(m.phraseQueries, query)
	m.mu.Unlock()
	if m.searchPhraseFn != nil {
		return m.searchPhraseFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockStore) GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error) {
	m.mu.Lock()
	m.getEmbeddingCalls++
	m.mu.Unlock()
	if m.getEmbeddingsFn != nil {
		return m.getEmbeddingsFn(ctx, ids)
	}
	return map[string][]float32{}, nil
}

func (m *mockStore) UpsertEmbedding(ctx context.Context, id string, embedding []float32) error {
	if m.upsertEmbeddingFn != nil {
		if err := m.upsertEmbeddingFn(ctx, id, embedding); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.upserts[id] = embedding
	m.mu.Unlock()
	return nil
}

func (m *mockStore) ResetEmbedding(ctx context.Context, id string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, id)
	}
	return nil
}

func (m *mockStore) ResetAllEmbeddings(ctx context.Context) (int64, error) {
	if m.resetAllFn != nil {
		return m.resetAllFn(ctx)
	}
	return 0, nil
}

func (m *mockStore) ListMissingEmbeddings(ctx context.Context, afterID string, limit int) ([]types.Package, error) {
	m.mu.Lock()
	m.listAfterIDs = append(m.listAfterIDs, afterID)
	m.mu.Unlock()
	if m.listMissingFn != nil {
		return m.listMissingFn(ctx, afterID, limit)
	}
	return nil, nil
}

func (m *mockStore) CountMissingEmbeddings(ctx context.Context) (int64, error) {
	if m.countMissingFn != nil {
		return m.countMissingFn(ctx)
	}
	return 0, nil
}

func (m *mockStore) UpsertPackage(ctx context.Context, pkg *types.Package) error { return nil }

func (m *mockStore) GetPackage(ctx context.Context, id string) (*types.Package, error) {
	return nil, store.ErrNotFound
}

func (m *mockStore) Stats(ctx context.Context) (*store.Stats, error) {
	return &store.Stats{}, nil
}

// mockChat implements nlp.Client.
type mockChat struct {
	chatFn func(ctx context.Context, messages []types.Message) (*types.Response, error)
	calls  int
}

func (m *mockChat) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	m.calls++
	if m.chatFn != nil {
		return m.chatFn(ctx, messages)
	}
	return &types.Response{Content: ""}, nil
}

func (m *mockChat) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return m.Chat(ctx, messages)
}

func (m *mockChat) Close() error { return nil }

// mockEmbedder implements embedder.Client.
type mockEmbedder struct {
	mu            sync.Mutex
	embedFn       func(ctx context.Context, texts []string) ([][]float32, error)
	embedSingleFn func(ctx context.Context, text string) ([]float32, error)
	dims          int

	embedCalls   int
	embedInputs  [][]string
	singleInputs []string
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.embedCalls++
	m.embedInputs = append(m.embedInputs, texts)
	m.mu.Unlock()
	if m.embedFn != nil {
		return m.embedFn(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (m *mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.singleInputs = append(m.singleInputs, text)
	m.mu.Unlock()
	if m.embedSingleFn != nil {
		return m.embedSingleFn(ctx, text)
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 2
}

func (m *mockEmbedder) Close() error { return nil }
