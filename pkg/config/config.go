package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Search configuration
	Search SearchConfig `mapstructure:"search"`

	// Benchmark configuration
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds backing-store configuration
type DatabaseConfig struct {
	URL                 string `mapstructure:"url"`
	Table               string `mapstructure:"table"`
	EmbeddingDimensions int    `mapstructure:"embedding_dimensions"`
	MaxOpenConns        int    `mapstructure:"max_open_conns"`
	MaxIdleConns        int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime     int    `mapstructure:"conn_max_lifetime"` // in minutes
}

// NLPConfig holds configuration for the chat completion capability
type NLPConfig struct {
	Provider    string  `mapstructure:"provider"` // openai
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // openai, local
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
	BatchSize  int    `mapstructure:"batch_size"`
	Mode       string `mapstructure:"mode"` // on_demand, precomputed
}

// SearchConfig holds engine tuning configuration
type SearchConfig struct {
	StopWordsPath string `mapstructure:"stop_words_path"`
}

// BenchmarkConfig holds configuration for the benchmark harness
type BenchmarkConfig struct {
	SuitePath  string `mapstructure:"suite_path"`
	Iterations int    `mapstructure:"iterations"`
	JudgeModel string `mapstructure:"judge_model"`
	CachePath  string `mapstructure:"cache_path"`
	ReportDir  string `mapstructure:"report_dir"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
	SQLEnabled  bool   `mapstructure:"sql_enabled"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.url", "postgres://localhost:5432/trovato?sslmode=disable")
	viper.SetDefault("database.table", "packages")
	viper.SetDefault("database.embedding_dimensions", 1536)
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5)

	// NLP defaults
	viper.SetDefault("nlp.provider", "openai")
	viper.SetDefault("nlp.model", "gpt-3.5-turbo")
	viper.SetDefault("nlp.temperature", 0.3)
	viper.SetDefault("nlp.max_tokens", 150)

	// Embedding defaults
	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimensions", 1536)
	viper.SetDefault("embedding.batch_size", 100)
	viper.SetDefault("embedding.mode", "on_demand")

	// Benchmark defaults
	viper.SetDefault("benchmark.iterations", 3)
	viper.SetDefault("benchmark.judge_model", "gpt-4-turbo")

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.trovato/telemetry", home))
		viper.SetDefault("benchmark.cache_path", fmt.Sprintf("%s/.trovato/judgments", home))
		viper.SetDefault("benchmark.report_dir", fmt.Sprintf("%s/.trovato/reports", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Remote capability credentials
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.NLP.APIKey = apiKey
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
	}
	if apiKey := os.Getenv("EMBEDDING_API_KEY"); apiKey != "" {
		config.Embedding.APIKey = apiKey
	}
	if url := os.Getenv("OPEN_AI_CHAT_URL"); url != "" {
		config.NLP.BaseURL = url
	}
	if url := os.Getenv("EMBEDDING_BASE_URL"); url != "" {
		config.Embedding.BaseURL = url
	}

	// Database settings
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if table := os.Getenv("TABLE_NAME"); table != "" {
		config.Database.Table = table
	}

	// Search settings
	if path := os.Getenv("STOP_WORDS_PATH"); path != "" {
		config.Search.StopWordsPath = path
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
