package dto

import "strings"

// SearchRequest represents a search query request
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	// Sort selects the fusion-weight profile: comprehensive, relevance,
	// or downloads. Empty selects the server default.
	Sort string `json:"sort,omitempty"`
	// Traditional skips rewriting and embeddings and ranks with keyword
	// matching alone.
	Traditional bool `json:"traditional,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	switch strings.ToLower(strings.TrimSpace(r.Sort)) {
	case "", "comprehensive", "relevance", "downloads":
		return nil
	}
	return ErrInvalidSort
}

// PackageResult is one ranked package in a search response
type PackageResult struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Downloads     int64   `json:"downloads,omitempty"`
	LexicalScore  float64 `json:"lexical_score"`
	SemanticScore float64 `json:"semantic_score"`
	FinalScore    float64 `json:"final_score"`
}

// SearchResponse represents a search result set
type SearchResponse struct {
	Query     string          `json:"query"`
	Sort      string          `json:"sort"`
	Results   []PackageResult `json:"results"`
	Count     int             `json:"count"`
	ElapsedMS int64           `json:"elapsed_ms"`
}
