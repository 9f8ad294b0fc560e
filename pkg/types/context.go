package types

// contextKey is a private type for context values set by the server and read
// by the telemetry handlers. A private type prevents collisions with keys
// from other packages.
type contextKey string

const (
	// ContextKeyUserID carries the authenticated caller's ID, when known.
	ContextKeyUserID contextKey = "user_id"
	// ContextKeySessionID carries the client session ID, when supplied.
	ContextKeySessionID contextKey = "session_id"
	// ContextKeyRequestSource names the surface a request arrived through.
	ContextKeyRequestSource contextKey = "request_source"
)
