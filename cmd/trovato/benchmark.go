package trovato

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/trovato/pkg/benchmark"
	"github.com/soundprediction/trovato/pkg/config"
	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/utils"
)

// judgeTemperature keeps relevance verdicts near-deterministic across runs.
const judgeTemperature float32 = 0.2

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure search latency and precision over a suite",
	Long: `Run a benchmark suite against the engine: every case is searched
repeatedly per sort criteria and the latency averaged.

With --compare each case is also run through the traditional keyword path.
With --judge the top results of every cell are graded for relevance by the
configured judge model and Precision@K is reported; verdicts are cached on
disk so reruns only pay for unseen (query, package) pairs.

Results land in a parquet report plus a text summary on stdout.`,
	RunE: runBenchmark,
}

var (
	benchmarkSuite      string
	benchmarkIterations int
	benchmarkCompare    bool
	benchmarkJudge      bool
	benchmarkPause      time.Duration
)

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().StringVar(&benchmarkSuite, "suite", "", "suite YAML file (default: built-in suite)")
	benchmarkCmd.Flags().IntVar(&benchmarkIterations, "iterations", 3, "searches per (case, method, criteria) cell")
	benchmarkCmd.Flags().BoolVar(&benchmarkCompare, "compare", false, "also measure the traditional keyword path")
	benchmarkCmd.Flags().BoolVar(&benchmarkJudge, "judge", false, "grade results with the configured judge model")
	benchmarkCmd.Flags().DurationVar(&benchmarkPause, "pause", 500*time.Millisecond, "pause between iterations")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if benchmarkSuite != "" {
		cfg.Benchmark.SuitePath = benchmarkSuite
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Benchmark.Iterations = benchmarkIterations
	}

	suite := benchmark.DefaultSuite()
	if cfg.Benchmark.SuitePath != "" {
		suite, err = benchmark.LoadSuite(cfg.Benchmark.SuitePath)
		if err != nil {
			return err
		}
	}

	logger := newLogger(cfg)
	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := benchmark.Options{
		Iterations: cfg.Benchmark.Iterations,
		Compare:    benchmarkCompare,
		Pause:      benchmarkPause,
	}

	if benchmarkJudge {
		if cfg.NLP.APIKey == "" && cfg.NLP.BaseURL == "" {
			return fmt.Errorf("--judge requires a chat configuration (set OPENAI_API_KEY)")
		}
		temp := judgeTemperature
		judgeClient, err := nlp.NewOpenAIClient(apiKeyOrDummy(cfg.NLP.APIKey, cfg.NLP.BaseURL), nlp.Config{
			Model:       cfg.Benchmark.JudgeModel,
			Temperature: &temp,
			BaseURL:     cfg.NLP.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create judge client: %w", err)
		}
		defer judgeClient.Close()

		cache, err := benchmark.OpenJudgmentCache(cfg.Benchmark.CachePath, logger)
		if err != nil {
			logger.Warn("judgment cache unavailable, every pair will be judged fresh", "error", err)
		} else {
			defer cache.Close()
		}
		opts.Judge = benchmark.NewJudge(judgeClient, cache, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal: %v\n", sig)
		cancel()
	}()

	runID := utils.GenerateUUID()
	runner := benchmark.NewRunner(client.GetEngine(), &opts, logger)

	fmt.Printf("Running %d cases, %d iterations per cell (run %s)\n",
		len(suite), cfg.Benchmark.Iterations, runID)
	results, err := runner.Run(ctx, suite)
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	fmt.Println()
	benchmark.WriteSummary(os.Stdout, results)

	path, err := benchmark.WriteReport(cfg.Benchmark.ReportDir, runID, results)
	if err != nil {
		return err
	}
	fmt.Printf("\nReport written: %s\n", path)
	return nil
}
