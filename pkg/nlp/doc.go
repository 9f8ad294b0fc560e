// Package nlp provides chat completion clients for LLM interactions.
//
// This package defines the Client interface and an implementation for
// OpenAI plus OpenAI-compatible APIs (Ollama, vLLM, etc.) selected via a
// custom base URL.
//
// # Client Wrappers
//
// CircuitBreakerClient wraps a client with the circuit breaker pattern.
// After repeated failures the breaker opens and calls fail immediately;
// callers are expected to fall back to a local strategy rather than retry,
// keeping remote outages from stalling a request.
//
// # Usage
//
//	// Create a base client
//	client, err := nlp.NewOpenAIClient(apiKey, config)
//
//	// Wrap with circuit breaking
//	guarded := nlp.Wrap(client, cbConfig, alerter, "rewriter")
//
//	// Use the client
//	response, err := guarded.Chat(ctx, messages)
//
// # Error Handling
//
// The package defines specific error types for common failure modes:
//   - RateLimitError: API rate limit exceeded
//   - EmptyResponseError: Model returned empty response
//
// These errors support errors.Is() for type checking.
package nlp
