package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestColorHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled at info level")
	}
}

func TestColorHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	log.Info("Processing query", "query", "http client")
	out := buf.String()

	if !strings.Contains(out, "Processing query") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "query=http client") {
		t.Errorf("output missing attribute: %q", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("output missing level label: %q", out)
	}
}

func TestColorHandlerColors(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, nil)

	log.Error("boom")
	if !strings.Contains(buf.String(), colorRed) {
		t.Error("error line should be red")
	}

	buf.Reset()
	log.Warn("careful")
	if !strings.Contains(buf.String(), colorYellow) {
		t.Error("warn line should be yellow")
	}

	buf.Reset()
	log.Info("Persisting embeddings", "count", 3)
	if !strings.Contains(buf.String(), colorGreen) {
		t.Error("persistence info line should be green")
	}
}

func TestColorHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(base.WithAttrs([]slog.Attr{slog.String("component", "search")}))

	log.Info("ready")
	if !strings.Contains(buf.String(), "component=search") {
		t.Errorf("output missing handler attrs: %q", buf.String())
	}

	buf.Reset()
	grouped := slog.New(base.WithGroup("engine"))
	grouped.Info("ready", "stage", "retrieve")
	if !strings.Contains(buf.String(), "engine.stage=retrieve") {
		t.Errorf("output missing grouped attr: %q", buf.String())
	}
}
