package nlp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/trovato/pkg/config"
	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyClient fails every call until failures are exhausted.
type flakyClient struct {
	failures int
	calls    int
}

func (f *flakyClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("upstream unavailable")
	}
	return &types.Response{Content: "ok"}, nil
}

func (f *flakyClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return f.Chat(ctx, messages)
}

func (f *flakyClient) Close() error { return nil }

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		ReadyToTripRatio: 0.5,
	}
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	inner := &flakyClient{}
	client := nlp.NewCircuitBreakerClient(inner, breakerConfig(), nil, "test")

	resp, err := client.Chat(context.Background(), []types.Message{nlp.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 1, inner.calls)
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	inner := &flakyClient{failures: 100}
	client := nlp.NewCircuitBreakerClient(inner, breakerConfig(), nil, "test")

	msgs := []types.Message{nlp.NewUserMessage("hi")}
	for i := 0; i < 3; i++ {
		_, err := client.Chat(context.Background(), msgs)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, client.State())

	// While open, calls fail fast without reaching the inner client.
	callsBefore := inner.calls
	_, err := client.Chat(context.Background(), msgs)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, callsBefore, inner.calls)
}

func TestWrapDisabledReturnsOriginal(t *testing.T) {
	inner := &flakyClient{}
	client := nlp.Wrap(inner, config.CircuitBreakerConfig{Enabled: false}, nil, "test")
	assert.Same(t, inner, client)
}
