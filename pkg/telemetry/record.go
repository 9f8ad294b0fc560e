package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/soundprediction/trovato/pkg/types"
)

// LogRecord is one captured log entry, flattened for columnar storage. The
// user, session, and source fields come from the request context when the
// record was emitted under one.
type LogRecord struct {
	ID            string    `parquet:"id"`
	Timestamp     time.Time `parquet:"timestamp"`
	Level         string    `parquet:"level"`
	Message       string    `parquet:"message"`
	UserID        string    `parquet:"user_id"`
	SessionID     string    `parquet:"session_id"`
	RequestSource string    `parquet:"request_source"`
	SourceFile    string    `parquet:"source_file"`
	LineNumber    int       `parquet:"line_number"`
	Attributes    string    `parquet:"attributes"`
}

// newLogRecord flattens a slog record plus its request context. Attributes
// marshal to a JSON object string so the column stays scalar; the fallback
// "{}" keeps the value valid for JSONB columns.
func newLogRecord(ctx context.Context, r slog.Record) LogRecord {
	rec := LogRecord{
		ID:         uuid.New().String(),
		Timestamp:  r.Time.UTC(),
		Level:      r.Level.String(),
		Message:    r.Message,
		Attributes: "{}",
	}

	if v, ok := ctx.Value(types.ContextKeyUserID).(string); ok {
		rec.UserID = v
	}
	if v, ok := ctx.Value(types.ContextKeySessionID).(string); ok {
		rec.SessionID = v
	}
	if v, ok := ctx.Value(types.ContextKeyRequestSource).(string); ok {
		rec.RequestSource = v
	}

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	if encoded, err := json.Marshal(attrs); err == nil {
		rec.Attributes = string(encoded)
	}

	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		rec.SourceFile = frame.File
		rec.LineNumber = frame.Line
	}

	return rec
}
