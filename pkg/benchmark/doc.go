// Package benchmark measures the search engine against reusable query
// suites: per-case latency across sort criteria, hybrid-versus-traditional
// method comparison, and LLM-judged result relevance (Precision@K).
//
// A run walks a suite of Cases, times every (case, method, criteria) cell,
// and optionally grades the final result list of each cell with a chat-model
// relevance judge. Judgments persist in a badger-backed cache so repeated
// runs over the same corpus never pay for the same (query, package) verdict
// twice. Results land in parquet files for offline analysis and in a
// human-readable summary table.
//
//	runner := benchmark.NewRunner(engine, &benchmark.Options{Compare: true}, logger)
//	results, err := runner.Run(ctx, benchmark.DefaultSuite())
//	benchmark.WriteSummary(os.Stdout, results)
package benchmark
