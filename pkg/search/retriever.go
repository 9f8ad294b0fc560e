package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

const (
	// maxTSQueryTerms bounds the compiled expression size and backend cost.
	maxTSQueryTerms = 6
	// retrieveLimit caps one lexical retrieval pass.
	retrieveLimit = 200
)

// Retriever fetches lexically ranked candidates from the backing store.
type Retriever struct {
	store  store.Store
	logger *slog.Logger
}

// NewRetriever creates a Retriever over the given store.
func NewRetriever(st store.Store, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{store: st, logger: logger}
}

// Retrieve compiles a keyword list into one text-search expression and issues
// a single parameterized query, returning candidates ordered by LexicalScore
// descending, capped at 200. Semantic and final scores start at zero. An
// empty keyword list yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, keywords string) ([]types.Candidate, error) {
	tsquery := BuildTSQuery(keywords)
	if tsquery == "" {
		return nil, nil
	}

	r.logger.Debug("lexical retrieval", "tsquery", tsquery)

	candidates, err := r.store.SearchTSQuery(ctx, tsquery, retrieveLimit)
	if err != nil {
		return nil, fmt.Errorf("lexical retrieval: %w", err)
	}
	return candidates, nil
}

// BuildTSQuery compiles a comma-separated keyword list into a tsquery
// expression: at most six terms, trimmed and lowercased, internal whitespace
// replaced by an AND conjunction, each term suffixed with a prefix-match
// marker, terms joined with OR. Example: "http client, json" becomes
// "http & client:* | json:*". Empty terms and terms past the cap are
// silently dropped.
func BuildTSQuery(keywords string) string {
	terms := utils.SplitNonEmpty(keywords, ",")
	processed := make([]string, 0, maxTSQueryTerms)

	for _, term := range terms {
		if len(processed) == maxTSQueryTerms {
			break
		}
		conjoined := strings.Join(strings.Fields(strings.ToLower(term)), " & ")
		processed = append(processed, conjoined+":*")
	}

	return strings.Join(processed, " | ")
}
