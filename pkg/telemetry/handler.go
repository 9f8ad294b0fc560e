// Package telemetry persists notable log records for offline analysis. The
// parquet handler batches Warn and Error records into files; the SQL handler
// inserts Error records into Postgres, queryable next to the corpus they
// describe. Both wrap another slog.Handler and never fail the logging chain
// on their own write errors.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
)

const parquetBatchSize = 100

// ParquetHandler buffers Warn and Error records and writes them to parquet
// files under a fixed directory, one file per flushed batch.
type ParquetHandler struct {
	next slog.Handler
	dir  string

	mu      sync.Mutex
	pending []LogRecord
}

// NewParquetHandler wraps next so Warn and Error records also land under dir,
// creating the directory if needed.
func NewParquetHandler(next slog.Handler, dir string) (*ParquetHandler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	return &ParquetHandler{
		next:    next,
		dir:     dir,
		pending: make([]LogRecord, 0, parquetBatchSize),
	}, nil
}

// Enabled implements slog.Handler.
func (h *ParquetHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle forwards the record, then captures it when it is Warn or above.
// A full buffer flushes inline.
func (h *ParquetHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level < slog.LevelWarn {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, newLogRecord(ctx, r))
	if len(h.pending) >= parquetBatchSize {
		return h.flushLocked()
	}
	return nil
}

// Flush writes any buffered records to disk. Call it on shutdown so
// short-lived processes do not lose records below the batch threshold.
func (h *ParquetHandler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flushLocked()
}

func (h *ParquetHandler) flushLocked() error {
	if len(h.pending) == 0 {
		return nil
	}

	name := fmt.Sprintf("trovato_logs_%s_%d.parquet",
		time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(h.dir, name)
	if err := parquet.WriteFile(path, h.pending); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write telemetry parquet file: %v\n", err)
		return err
	}

	h.pending = h.pending[:0]
	return nil
}

// WithAttrs implements slog.Handler. Derived handlers batch independently.
func (h *ParquetHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ParquetHandler{
		next:    h.next.WithAttrs(attrs),
		dir:     h.dir,
		pending: make([]LogRecord, 0, parquetBatchSize),
	}
}

// WithGroup implements slog.Handler. Derived handlers batch independently.
func (h *ParquetHandler) WithGroup(name string) slog.Handler {
	return &ParquetHandler{
		next:    h.next.WithGroup(name),
		dir:     h.dir,
		pending: make([]LogRecord, 0, parquetBatchSize),
	}
}
