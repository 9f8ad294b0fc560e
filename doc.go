// Package trovato provides a hybrid package-search engine for Go.
//
// Trovato ranks software packages against free-form queries by combining
// lexical full-text retrieval with embedding similarity. Queries are
// normalized and rewritten into index-friendly keywords, candidates are
// retrieved from a Postgres text index, scored against the query embedding,
// and the two scores are fused into a single ranking.
//
// # Basic Usage
//
// Create a new Trovato client with the required components:
//
//	// Create the backing store
//	st, err := store.NewPostgresStore("postgres://localhost:5432/trovato?sslmode=disable", "packages", 1536)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	// Create the chat client used for query rewriting
//	nlpConfig := nlp.Config{Model: "gpt-3.5-turbo"}
//	chat := nlp.NewOpenAIClient("your-api-key", nlpConfig)
//
//	// Create embedder
//	embConfig := embedder.Config{Model: "text-embedding-3-small"}
//	embedderClient := embedder.NewOpenAIEmbedder("your-api-key", embConfig)
//
//	// Create Trovato client
//	client, err := trovato.NewClient(st, chat, embedderClient, nil, nil)
//
// # Searching
//
// Run a hybrid search and walk the ranked candidates:
//
//	results, err := client.Search(ctx, "http client", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, c := range results {
//		fmt.Printf("%s  %.3f\n", c.Name, c.FinalScore)
//	}
//
// The Sort option selects the fusion-weight profile: "comprehensive"
// balances both signals, "relevance" favors keyword matching, "downloads"
// weighs them evenly. Traditional mode skips rewriting and embeddings
// entirely and ranks with multi-variant keyword matching alone:
//
//	results, err = client.Search(ctx, "serde", &trovato.SearchOptions{
//		Sort:        types.SortRelevance,
//		Traditional: true,
//	})
//
// # Graceful Degradation
//
// The chat client and the embedder are optional capabilities. Without a
// chat client, query rewriting falls back to local keyword heuristics.
// Without an embedder, ranking falls back to lexical order. Failures of
// either capability during a search degrade the same way; only
// backing-store errors surface to the caller.
//
// # Embedding Maintenance
//
// Candidate embeddings are cached in the store. In on-demand mode, missing
// vectors are computed and persisted during search. Precomputed mode never
// embeds during a search; fill the cache offline instead:
//
//	persisted, err := client.PrecomputeEmbeddings(ctx, search.PrecomputeOptions{})
//
// After changing the embedding model, reset the cache so each vector is
// recomputed against the new model:
//
//	cleared, err := client.ResetAllEmbeddings(ctx)
//
// # Error Handling
//
// The library provides typed errors for common scenarios:
//
//   - ErrNoStore: Returned when a client is built without a backing store
//   - ErrPackageNotFound: Returned when a requested package doesn't exist
//   - ErrInvalidPackage: Returned when a package row is malformed
//
// # Architecture
//
// The library follows a modular architecture:
//
//   - pkg/store: Postgres package index and embedding cache
//   - pkg/search: Query pipeline, scoring, and fusion
//   - pkg/nlp: Chat completion client interfaces
//   - pkg/embedder: Embedding model client interfaces
//   - pkg/types: Core type definitions
//
// This design allows easy extension with additional store backends,
// chat providers, and embedding services.
package trovato
