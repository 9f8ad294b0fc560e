package types

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyQuery       = errors.New("query cannot be empty")
	ErrUnknownCriteria  = errors.New("unknown sort criteria")
	ErrUnknownEmbedMode = errors.New("unknown embedding mode")
)

// Candidate is one retrieved package record carrying the three scores the
// engine produces. LexicalScore comes from the store's text-relevance
// function and is only comparable within a single retrieval call.
// SemanticScore is the cosine similarity between the query embedding and the
// candidate embedding, 0 when no embedding could be resolved. FinalScore is
// the fused ranking key: results are always ordered by FinalScore descending.
type Candidate struct {
	ID            string  `json:"id" mapstructure:"id"`
	Name          string  `json:"name" mapstructure:"name"`
	Description   string  `json:"description" mapstructure:"description"`
	Downloads     int64   `json:"downloads,omitempty" mapstructure:"downloads"`
	LexicalScore  float64 `json:"lexical_score" mapstructure:"lexical_score"`
	SemanticScore float64 `json:"semantic_score" mapstructure:"semantic_score"`
	FinalScore    float64 `json:"final_score" mapstructure:"final_score"`
}

// Package is a backing-store row. It is what provisioning, fixtures, and the
// lookup surfaces exchange with the store; the engine itself only ever sees
// Candidates built from these rows.
type Package struct {
	ID          string    `json:"id" mapstructure:"id"`
	Name        string    `json:"name" mapstructure:"name"`
	Description string    `json:"description" mapstructure:"description"`
	Downloads   int64     `json:"downloads" mapstructure:"downloads"`
	Embedding   []float32 `json:"embedding,omitempty" mapstructure:"embedding"`
}

// Validate checks if the Package has all required fields set.
func (p *Package) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// EmbeddingText builds the text a Package is embedded from.
func (p *Package) EmbeddingText() string {
	return EmbeddingText(p.Name, p.Description)
}

// EmbeddingText builds the text a package is embedded from. The name carries
// more semantic weight than the description, so it leads, and a missing
// description does not leave a dangling separator.
func EmbeddingText(name, description string) string {
	if strings.TrimSpace(description) == "" {
		return name
	}
	return fmt.Sprintf("%s : %s", name, description)
}

// SortCriteria selects the fusion weights applied when lexical and semantic
// scores are combined. The set is closed; immutable for one search call.
type SortCriteria string

const (
	// SortComprehensive balances lexical and semantic relevance.
	SortComprehensive SortCriteria = "comprehensive"
	// SortRelevance favors lexical keyword relevance.
	SortRelevance SortCriteria = "relevance"
	// SortDownloads weighs semantic similarity evenly with lexical relevance.
	// Download counts themselves do not participate in scoring yet.
	SortDownloads SortCriteria = "downloads"
)

// Valid reports whether c is one of the known criteria.
func (c SortCriteria) Valid() bool {
	switch c {
	case SortComprehensive, SortRelevance, SortDownloads:
		return true
	}
	return false
}

// ParseSortCriteria maps a user-supplied string onto a SortCriteria,
// case-insensitively. Empty input selects SortComprehensive.
func ParseSortCriteria(s string) (SortCriteria, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SortComprehensive):
		return SortComprehensive, nil
	case string(SortRelevance):
		return SortRelevance, nil
	case string(SortDownloads):
		return SortDownloads, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCriteria, s)
}

// EmbeddingMode controls how the embedding cache layer treats candidates
// without a stored vector.
type EmbeddingMode string

const (
	// EmbeddingOnDemand generates and persists missing vectors during search.
	EmbeddingOnDemand EmbeddingMode = "on_demand"
	// EmbeddingPrecomputed never generates; candidates without a stored
	// vector keep a zero semantic score.
	EmbeddingPrecomputed EmbeddingMode = "precomputed"
)

// ParseEmbeddingMode maps a configuration string onto an EmbeddingMode.
// Empty input selects EmbeddingOnDemand.
func ParseEmbeddingMode(s string) (EmbeddingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EmbeddingOnDemand):
		return EmbeddingOnDemand, nil
	case string(EmbeddingPrecomputed):
		return EmbeddingPrecomputed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEmbedMode, s)
}
