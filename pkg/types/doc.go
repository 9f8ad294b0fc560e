// Package types defines the core data types for trovato package search.
//
// This package contains the fundamental types used throughout trovato:
//   - Candidate: One retrieved package record with lexical, semantic, and
//     fused scores
//   - Package: A backing-store row exchanged with provisioning and fixtures
//   - SortCriteria: The closed set of ranking policies
//   - EmbeddingMode: On-demand versus precomputed embedding resolution
//
// # Scores
//
// A Candidate carries three scores. LexicalScore is produced by the store's
// text-relevance function and is meaningless in isolation; it is only
// comparable within one retrieval call. SemanticScore is a cosine similarity
// in [-1, 1], zero when no embedding was resolved. FinalScore is the fused
// ranking key and strictly determines output order.
//
// # Validation
//
// Types provide Validate() methods for input validation:
//
//	pkg := &types.Package{ID: "reqwest", Name: "reqwest"}
//	if err := pkg.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// All types are JSON-serializable with appropriate struct tags.
package types
