package main

import (
	"log/slog"

	"github.com/soundprediction/trovato/pkg/logger"
)

func main() {
	// Create a colored logger
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("============================================")
	log.Info("    Trovato Colored Logger Demo")
	log.Info("============================================")
	log.Info("")

	log.Debug("Debug message - standard color")
	log.Info("Info message - standard color")
	log.Info("Persisting embeddings to database - green!")
	log.Info("Embeddings persisted successfully - also green!")
	log.Warn("Warning message - yellow!")
	log.Error("Error message - red!")

	log.Info("")
	log.Info("Store writes are highlighted in green:")
	log.Info("Persisting missing embeddings", "count", 42, "batch_size", 100)
	log.Info("Embeddings persisted", "duration", "2.5s")

	log.Info("")
	log.Warn("Warnings appear in yellow for attention")
	log.Error("Errors appear in red for immediate visibility")

	log.Info("")
	log.Info("Demo complete!")
}
