package trovato

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/alert"
	"github.com/soundprediction/trovato/pkg/config"
	"github.com/soundprediction/trovato/pkg/embedder"
	trovatoLogger "github.com/soundprediction/trovato/pkg/logger"
	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/search"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/telemetry"
	"github.com/soundprediction/trovato/pkg/types"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "trovato",
		Short: "Trovato: hybrid package search",
		Long: `Trovato is a hybrid search engine for software package catalogs.
It rewrites free-form queries into index-friendly keywords, retrieves
candidates from a Postgres text index, scores them against the query
embedding, and fuses both scores into a single ranking.

Complete documentation is available at https://github.com/soundprediction/trovato`,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is trovato.yaml in . or $HOME)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search the working directory first, then home.
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName("trovato")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from config. When telemetry is
// configured the color handler is wrapped so Error records also land in the
// telemetry_logs table and Warn and Error records in parquet files.
func newLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler = trovatoLogger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	})

	if cfg.Telemetry.SQLEnabled && cfg.Database.URL != "" {
		if db, err := sql.Open("postgres", cfg.Database.URL); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open telemetry database: %v\n", err)
		} else if sqlHandler, err := telemetry.NewSQLHandler(handler, db); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize SQL telemetry: %v\n", err)
		} else {
			handler = sqlHandler
		}
	}

	if cfg.Telemetry.ParquetPath != "" {
		if err := os.MkdirAll(cfg.Telemetry.ParquetPath, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create telemetry directory: %v\n", err)
		} else if parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize error tracking: %v\n", err)
		} else {
			handler = parquetHandler
		}
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildClient assembles a Trovato client from configuration. The Postgres
// store is required; the chat client and embedder are attached only when
// credentials or a base URL are configured, and each remote client rides the
// circuit breaker when it is enabled.
func buildClient(cfg *config.Config, logger *slog.Logger) (*trovato.Client, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	st, err := store.NewPostgresStoreWithConfig(
		cfg.Database.URL,
		cfg.Database.Table,
		cfg.Database.EmbeddingDimensions,
		true,
		&store.Config{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	alerter := alert.New(cfg.Alert)

	var chat nlp.Client
	if cfg.NLP.APIKey != "" || cfg.NLP.BaseURL != "" {
		nlpConfig := nlp.Config{
			Model:       cfg.NLP.Model,
			Temperature: &cfg.NLP.Temperature,
			BaseURL:     cfg.NLP.BaseURL,
		}
		if cfg.NLP.MaxTokens > 0 {
			nlpConfig.MaxTokens = &cfg.NLP.MaxTokens
		}
		base, err := nlp.NewOpenAIClient(apiKeyOrDummy(cfg.NLP.APIKey, cfg.NLP.BaseURL), nlpConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat client: %w", err)
		}
		chat = nlp.Wrap(base, cfg.CircuitBreaker, alerter, "nlp")
	} else {
		logger.Warn("no chat configuration provided, query rewriting degrades to local keyword extraction")
	}

	var emb embedder.Client
	if cfg.Embedding.Provider == "local" || cfg.Embedding.APIKey != "" || cfg.Embedding.BaseURL != "" {
		emb, err = buildEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		emb = embedder.Wrap(emb, cfg.CircuitBreaker, alerter, "embedder")
	} else {
		logger.Warn("no embedding configuration provided, ranking degrades to lexical order")
	}

	mode, err := types.ParseEmbeddingMode(cfg.Embedding.Mode)
	if err != nil {
		return nil, err
	}

	return trovato.NewClient(st, chat, emb, &trovato.Config{
		EmbeddingMode: mode,
		StopWords:     search.LoadStopWords(cfg.Search.StopWordsPath),
	}, logger)
}

func buildEmbedder(cfg *config.Config) (embedder.Client, error) {
	embedderConfig := embedder.Config{
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
		BatchSize:  cfg.Embedding.BatchSize,
	}
	switch cfg.Embedding.Provider {
	case "openai":
		return embedder.NewOpenAIEmbedder(apiKeyOrDummy(cfg.Embedding.APIKey, cfg.Embedding.BaseURL), embedderConfig), nil
	case "local":
		return embedder.NewEmbedEverythingClient(&embedder.EmbedEverythingConfig{Config: &embedderConfig})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// apiKeyOrDummy substitutes a placeholder key when only a base URL is
// configured; some OpenAI-compatible services require a non-empty key.
func apiKeyOrDummy(apiKey, baseURL string) string {
	if apiKey == "" && baseURL != "" {
		return "dummy"
	}
	return apiKey
}
