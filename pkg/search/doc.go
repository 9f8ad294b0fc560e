// Package search implements the hybrid retrieval-and-rerank engine behind
// trovato: lexical candidate generation against a Postgres text-search index,
// embedding similarity against cached package vectors, and score-weighted
// fusion under a caller-selected sort criteria.
//
// # Pipeline
//
// A search call flows through fixed stages, strictly in sequence:
//
//  1. Normalizer classifies the query as structured keywords or natural
//     language (Latin and CJK aware) and folds/trims it.
//  2. Rewriter expands the query into a keyword list via a remote chat
//     completion, with a deterministic local fallback that never fails.
//  3. Retriever compiles the keyword list into one tsquery expression and
//     fetches up to 200 candidates ranked by ts_rank.
//  4. Embedding resolution reuses stored vectors, batch-computes and
//     persists missing ones (on-demand mode) or skips them (precomputed mode).
//  5. Ranking fuses lexical and semantic scores per the sort criteria and
//     returns the top 100.
//
// # Usage
//
//	engine := search.NewEngine(store, llmClient, embedderClient, nil)
//	results, err := engine.Search(ctx, "http client", types.SortComprehensive)
//
// # Degradation
//
// Remote capabilities are optional at every stage. A nil or failing chat
// client degrades rewriting to local keyword extraction; a nil or failing
// embedder degrades ranking to lexical-only order. Only backing-store errors
// surface to the caller.
//
// # Traditional mode
//
// TraditionalSearcher is a self-contained alternate path that never touches
// a remote capability: it expands one query into several variants, runs
// weighted exact/prefix/loose strategies for each, deduplicates by id, and
// ranks by heuristic weights alone.
package search
