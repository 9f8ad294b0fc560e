package trovato

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soundprediction/trovato/pkg/checkpoint"
	"github.com/soundprediction/trovato/pkg/config"
	"github.com/soundprediction/trovato/pkg/search"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/utils"
)

var embeddingsCmd = &cobra.Command{
	Use:   "embeddings",
	Short: "Maintain the embedding cache",
	Long: `Maintain the stored package embeddings: bulk-fill missing vectors or
clear stored ones so they are recomputed.`,
}

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Bulk-fill missing embeddings",
	Long: `Walk every package without a stored vector in fixed-size pages, embed
each page in one batch, and persist the results.

Progress is checkpointed to disk after every page. An interrupted run can be
resumed with --job-id; the walk restarts from the last finished page. A
resumed job refuses to continue under a different embedding model.`,
	RunE: runPrecompute,
}

var (
	precomputePageSize      int
	precomputeBatchSize     int
	precomputeJobID         string
	precomputeCheckpointDir string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear stored embeddings",
	Long: `Clear the stored vector for one package (--id) or for the whole index
(--all). Cleared vectors are recomputed on demand or by the next precompute
run. Reset everything after changing the embedding model.`,
	RunE: runReset,
}

var (
	resetID  string
	resetAll bool
)

func init() {
	rootCmd.AddCommand(embeddingsCmd)
	embeddingsCmd.AddCommand(precomputeCmd)
	embeddingsCmd.AddCommand(resetCmd)

	precomputeCmd.Flags().IntVar(&precomputePageSize, "page-size", 0, "packages per store page (0 selects the default)")
	precomputeCmd.Flags().IntVar(&precomputeBatchSize, "batch-size", 0, "texts per embedding API call (0 keeps the configured value)")
	precomputeCmd.Flags().StringVar(&precomputeJobID, "job-id", "", "resume the checkpointed job with this ID")
	precomputeCmd.Flags().StringVar(&precomputeCheckpointDir, "checkpoint-dir", "", "checkpoint directory (default <tmp>/trovato-checkpoints)")

	resetCmd.Flags().StringVar(&resetID, "id", "", "reset the stored vector for one package")
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "reset every stored vector")
}

func runPrecompute(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if precomputeBatchSize > 0 {
		cfg.Embedding.BatchSize = precomputeBatchSize
	}

	logger := newLogger(cfg)
	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	mgr, err := checkpoint.NewCheckpointManager(precomputeCheckpointDir)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint manager: %w", err)
	}

	jobID := precomputeJobID
	if jobID == "" {
		jobID = utils.GenerateUUID()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal: %v, stopping after the current page\n", sig)
		cancel()
	}()

	ckpt, resumed, err := mgr.LoadOrCreate(ctx, jobID, cfg.Embedding.Model, 0, precomputePageSize)
	if err != nil {
		return err
	}
	if resumed {
		fmt.Printf("Resuming job %s from cursor %q\n", jobID, ckpt.Cursor)
	} else {
		fmt.Printf("Starting job %s\n", jobID)
	}

	opts := search.PrecomputeOptions{
		PageSize:    precomputePageSize,
		ResumeAfter: ckpt.Cursor,
		OnPage: func(p search.PrecomputeProgress) {
			ckpt.Total = p.Total
			if err := mgr.SaveProgress(ctx, ckpt, p.LastID, p.Processed); err != nil {
				logger.Warn("checkpoint write failed", "job_id", jobID, "error", err)
			}
			fmt.Printf("  %s\n", ckpt.Progress())
		},
	}

	count, err := client.PrecomputeEmbeddings(ctx, opts)
	if err != nil {
		if saveErr := mgr.SaveWithError(ctx, ckpt, err); saveErr != nil {
			logger.Warn("checkpoint write failed", "job_id", jobID, "error", saveErr)
		}
		return fmt.Errorf("precompute stopped after %d vectors (resume with --job-id %s): %w", count, jobID, err)
	}

	if err := mgr.MarkCompleted(ctx, ckpt); err != nil {
		logger.Warn("checkpoint write failed", "job_id", jobID, "error", err)
	}

	// IVFFlat builds against the vectors present at creation time, so the
	// index is created after the cache is filled.
	if pg, ok := client.GetStore().(*store.PostgresStore); ok {
		if err := pg.CreateVectorIndex(ctx, 0); err != nil {
			logger.Warn("vector index creation failed", "error", err)
		}
	}

	fmt.Printf("Precomputed %d embeddings\n", count)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if (resetID != "") == resetAll {
		return fmt.Errorf("exactly one of --id or --all is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()
	if resetAll {
		count, err := client.ResetAllEmbeddings(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset embeddings: %w", err)
		}
		fmt.Printf("Reset %d stored embeddings\n", count)
		return nil
	}

	if err := client.ResetEmbedding(ctx, resetID); err != nil {
		return fmt.Errorf("failed to reset embedding for %s: %w", resetID, err)
	}
	fmt.Printf("Reset embedding for %s\n", resetID)
	return nil
}
