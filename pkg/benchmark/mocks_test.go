package benchmark

import (
	"context"
	"sync"

	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/types"
)

// mockChat implements nlp.Client with canned responses consumed in order;
// the last response repeats once the queue is exhausted. The final user
// message of every call is recorded for prompt assertions.
type mockChat struct {
	mu        sync.Mutex
	responses []string
	err       error

	calls   int
	prompts []string
}

var _ nlp.Client = (*mockChat)(nil)

func (m *mockChat) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(messages) > 0 {
		m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &types.Response{Content: `{"judgments": []}`}, nil
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return &types.Response{Content: m.responses[idx]}, nil
}

func (m *mockChat) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return m.Chat(ctx, messages)
}

func (m *mockChat) Close() error { return nil }

// mockSearcher implements Searcher with fixed result lists per method.
type mockSearcher struct {
	mu          sync.Mutex
	results     []types.Candidate
	traditional []types.Candidate
	err         error

	searchCalls      int
	traditionalCalls int
	queries          []string
	criteria         []types.SortCriteria
}

var _ Searcher = (*mockSearcher)(nil)

func (m *mockSearcher) Search(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.queries = append(m.queries, query)
	m.criteria = append(m.criteria, sortBy)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockSearcher) SearchTraditional(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traditionalCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.traditional, nil
}
