package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/trovato/pkg/alert"
	"github.com/soundprediction/trovato/pkg/config"
)

// CircuitBreakerEmbedder wraps a Client with circuit breaking logic. Once the
// breaker opens, calls fail immediately with gobreaker.ErrOpenState; callers
// are expected to fall back to lexical-only scoring rather than retry.
type CircuitBreakerEmbedder struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// Wrap returns client unchanged when circuit breaking is disabled, otherwise
// a CircuitBreakerEmbedder around it.
func Wrap(client Client, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string) Client {
	if !cfg.Enabled {
		return client
	}
	return NewCircuitBreakerEmbedder(client, cfg, alerter, name)
}

// NewCircuitBreakerEmbedder creates a new circuit breaker embedder
func NewCircuitBreakerEmbedder(client Client, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string) *CircuitBreakerEmbedder {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
			if to == gobreaker.StateOpen {
				msg := fmt.Sprintf("Circuit Breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
				if alerter != nil {
					_ = alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg)
				}
			}
		},
	}

	return &CircuitBreakerEmbedder{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
	}
}

// Embed implements Client
func (e *CircuitBreakerEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.cb.Execute(func() (interface{}, error) {
		return e.client.Embed(ctx, texts)
	})

	if err != nil {
		return nil, err
	}
	return resp.([][]float32), nil
}

// EmbedSingle implements Client
func (e *CircuitBreakerEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.cb.Execute(func() (interface{}, error) {
		return e.client.EmbedSingle(ctx, text)
	})

	if err != nil {
		return nil, err
	}
	return resp.([]float32), nil
}

// Dimensions implements Client
func (e *CircuitBreakerEmbedder) Dimensions() int {
	return e.client.Dimensions()
}

// Close implements Client
func (e *CircuitBreakerEmbedder) Close() error {
	return e.client.Close()
}
