package trovato

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/config"
	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one query against the package index",
	Long: `Run one query through the hybrid pipeline and print the ranked results.

The query is normalized, rewritten into index-friendly keywords, matched
against the Postgres text index, scored against the query embedding, and the
lexical and semantic scores are fused into the final order. With
--traditional the engine skips every remote capability and ranks by weighted
keyword matching alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchSort        string
	searchTraditional bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchSort, "sort", "comprehensive", "sort criteria (comprehensive, relevance, downloads)")
	searchCmd.Flags().BoolVar(&searchTraditional, "traditional", false, "skip remote capabilities, rank by keyword matching alone")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sortBy, err := types.ParseSortCriteria(searchSort)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	query := strings.Join(args, " ")
	start := time.Now()
	results, err := client.Search(context.Background(), query, &trovato.SearchOptions{
		Sort:        sortBy,
		Traditional: searchTraditional,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	elapsed := time.Since(start)

	if len(results) == 0 {
		fmt.Printf("no results for %q (%.1f ms)\n", query, elapsed.Seconds()*1000)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSCORE\tLEXICAL\tSEMANTIC\tDESCRIPTION")
	for i, c := range results {
		desc := utils.TruncateString(strings.ReplaceAll(c.Description, "\n", " "), 60)
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.4f\t%s\n",
			i+1, c.Name, c.FinalScore, c.LexicalScore, c.SemanticScore, desc)
	}
	tw.Flush()
	fmt.Printf("\n%d results in %.1f ms\n", len(results), elapsed.Seconds()*1000)
	return nil
}
