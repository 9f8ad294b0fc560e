package trovato

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/config"
	"github.com/soundprediction/trovato/pkg/search"
	"github.com/soundprediction/trovato/pkg/types"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol (MCP) server",
	Long: `Start the Model Context Protocol (MCP) server to provide MCP tool access to the package index.

The MCP server provides tools for:
- Searching packages with the hybrid pipeline
- Looking up a package by ID
- Summarizing the indexed corpus
- Precomputing missing embeddings

The server can communicate over stdio or HTTP/SSE transport protocols and is
designed to work with MCP-compatible clients.`,
	RunE: runMCP,
}

var (
	mcpTransport string
	mcpHost      string
	mcpPort      int
)

func init() {
	rootCmd.AddCommand(mcpCmd)

	// Environment variable bindings kept compatible with common MCP setups
	viper.BindEnv("mcp.transport", "MCP_TRANSPORT")
	viper.BindEnv("mcp.host", "MCP_HOST")
	viper.BindEnv("mcp.port", "MCP_PORT")

	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio or sse)")
	mcpCmd.Flags().StringVar(&mcpHost, "host", "localhost", "Host to bind the MCP server to")
	mcpCmd.Flags().IntVar(&mcpPort, "port", 3000, "Port to bind the MCP server to")

	viper.BindPFlag("mcp.transport", mcpCmd.Flags().Lookup("transport"))
	viper.BindPFlag("mcp.host", mcpCmd.Flags().Lookup("host"))
	viper.BindPFlag("mcp.port", mcpCmd.Flags().Lookup("port"))
}

// MCPServer exposes the search client as MCP tools.
type MCPServer struct {
	transport string
	host      string
	port      int
	client    *trovato.Client
	logger    *slog.Logger
}

// MCP tool request/response types

// SearchPackagesRequest represents the parameters of the search_packages tool.
type SearchPackagesRequest struct {
	Query       string `json:"query"`
	Sort        string `json:"sort,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Traditional bool   `json:"traditional,omitempty"`
}

// GetPackageRequest represents the parameters of the get_package tool.
type GetPackageRequest struct {
	ID string `json:"id"`
}

// IndexStatsRequest represents the (empty) parameters of the index_stats tool.
type IndexStatsRequest struct{}

// PrecomputeEmbeddingsRequest represents the parameters of the
// precompute_embeddings tool.
type PrecomputeEmbeddingsRequest struct {
	PageSize int `json:"page_size,omitempty"`
}

// ToolResponse is a generic response wrapper
type ToolResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	transport := getViperStringWithFallback("mcp.transport", mcpTransport)
	host := getViperStringWithFallback("mcp.host", mcpHost)
	port := getViperIntWithFallback("mcp.port", mcpPort)

	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}

	logger := newLogger(cfg)
	client, err := buildClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	defer client.Close()

	server := &MCPServer{
		transport: transport,
		host:      host,
		port:      port,
		client:    client,
		logger:    logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure the backing schema exists before serving tools.
	if err := client.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)
		cancel()

		// Give server time to shutdown gracefully
		select {
		case <-time.After(10 * time.Second):
			return fmt.Errorf("server shutdown timeout")
		case <-serverErrChan:
			fmt.Println("MCP server stopped gracefully")
			return nil
		}
	}
}

// Run starts the MCP server on the configured transport.
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server", "transport", s.transport)

	g := genkit.Init(ctx)
	s.RegisterTools(g)

	s.logger.Info("MCP server is ready to accept requests")

	switch s.transport {
	case "stdio":
		return s.handleStdioTransport(ctx)
	case "sse":
		return s.handleSSETransport(ctx)
	default:
		return fmt.Errorf("unsupported transport: %s", s.transport)
	}
}

// RegisterTools registers all MCP tools with Genkit.
func (s *MCPServer) RegisterTools(g *genkit.Genkit) {
	genkit.DefineTool(g, "search_packages",
		"Search the package index. Combines full-text retrieval with embedding similarity and returns packages ordered by final score.",
		s.SearchPackagesTool)

	genkit.DefineTool(g, "get_package",
		"Look up one package by its ID.",
		s.GetPackageTool)

	genkit.DefineTool(g, "index_stats",
		"Summarize the indexed corpus: package count and embedding coverage.",
		s.IndexStatsTool)

	genkit.DefineTool(g, "precompute_embeddings",
		"Embed every package without a stored vector and persist the results.",
		s.PrecomputeEmbeddingsTool)

	s.logger.Info("MCP tools registered successfully",
		"tools", []string{"search_packages", "get_package", "index_stats", "precompute_embeddings"})
}

// Tool implementations

// SearchPackagesTool runs one query through the hybrid pipeline.
func (s *MCPServer) SearchPackagesTool(ctx *ai.ToolContext, input *SearchPackagesRequest) (*ToolResponse, error) {
	// Validate required fields
	if input.Query == "" {
		return &ToolResponse{
			Success: false,
			Error:   "Query is required",
		}, nil
	}

	sortBy, err := types.ParseSortCriteria(input.Sort)
	if err != nil {
		return &ToolResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	results, err := s.client.Search(context.Background(), input.Query, &trovato.SearchOptions{
		Sort:        sortBy,
		Traditional: input.Traditional,
	})
	if err != nil {
		s.logger.Error("Failed to search packages", "error", err)
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to search packages: %v", err),
		}, nil
	}

	if input.Limit > 0 && len(results) > input.Limit {
		results = results[:input.Limit]
	}

	if len(results) == 0 {
		return &ToolResponse{
			Success: true,
			Message: "No relevant packages found",
			Data:    []interface{}{},
		}, nil
	}

	// Format results
	packages := make([]map[string]interface{}, len(results))
	for i, c := range results {
		packages[i] = map[string]interface{}{
			"id":             c.ID,
			"name":           c.Name,
			"description":    c.Description,
			"downloads":      c.Downloads,
			"lexical_score":  c.LexicalScore,
			"semantic_score": c.SemanticScore,
			"final_score":    c.FinalScore,
		}
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d packages", len(packages)),
		Data:    packages,
	}, nil
}

// GetPackageTool looks up one package row by ID.
func (s *MCPServer) GetPackageTool(ctx *ai.ToolContext, input *GetPackageRequest) (*ToolResponse, error) {
	if input.ID == "" {
		return &ToolResponse{
			Success: false,
			Error:   "ID is required",
		}, nil
	}

	pkg, err := s.client.GetPackage(context.Background(), input.ID)
	if err != nil {
		if errors.Is(err, trovato.ErrPackageNotFound) {
			return &ToolResponse{
				Success: false,
				Error:   fmt.Sprintf("Package not found: %s", input.ID),
			}, nil
		}
		s.logger.Error("Failed to get package", "error", err)
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to get package: %v", err),
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Package '%s' retrieved successfully", pkg.Name),
		Data: map[string]interface{}{
			"id":            pkg.ID,
			"name":          pkg.Name,
			"description":   pkg.Description,
			"downloads":     pkg.Downloads,
			"has_embedding": len(pkg.Embedding) > 0,
		},
	}, nil
}

// IndexStatsTool summarizes the indexed corpus.
func (s *MCPServer) IndexStatsTool(ctx *ai.ToolContext, input *IndexStatsRequest) (*ToolResponse, error) {
	stats, err := s.client.Stats(context.Background())
	if err != nil {
		s.logger.Error("Failed to read index stats", "error", err)
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to read index stats: %v", err),
		}, nil
	}

	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Index holds %d packages, %d embedded", stats.Packages, stats.Embedded),
		Data:    stats,
	}, nil
}

// PrecomputeEmbeddingsTool bulk-fills missing embeddings.
func (s *MCPServer) PrecomputeEmbeddingsTool(ctx *ai.ToolContext, input *PrecomputeEmbeddingsRequest) (*ToolResponse, error) {
	count, err := s.client.PrecomputeEmbeddings(context.Background(), search.PrecomputeOptions{
		PageSize: input.PageSize,
	})
	if err != nil {
		s.logger.Error("Failed to precompute embeddings", "error", err)
		return &ToolResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to precompute embeddings: %v", err),
		}, nil
	}

	s.logger.Info("Embeddings precomputed", "count", count)
	return &ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Precomputed %d embeddings", count),
		Data: map[string]interface{}{
			"embedded": count,
		},
	}, nil
}

// Transport handlers

// handleStdioTransport handles MCP protocol over stdio.
func (s *MCPServer) handleStdioTransport(ctx context.Context) error {
	s.logger.Info("MCP server handling stdio transport")

	// Genkit's runtime owns the message loop; block until shutdown.
	<-ctx.Done()
	s.logger.Info("Stdio transport handler shutting down")
	return ctx.Err()
}

// handleSSETransport handles MCP protocol over Server-Sent Events (HTTP).
func (s *MCPServer) handleSSETransport(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("MCP server handling SSE transport", "address", address)

	server := &http.Server{
		Addr: address,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "MCP server running", "transport": "sse"}`))
		}),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("SSE transport handler shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// Viper helper functions with fallback support
func getViperStringWithFallback(key, fallback string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func getViperIntWithFallback(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}
