package search

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/prompts"
	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

// Rewriter expands queries into keyword lists suited to the lexical index.
// Both operations try the remote chat capability once and degrade to a
// deterministic local procedure on any failure: missing client, transport
// error, malformed or empty completion. Neither operation can fail from the
// caller's point of view.
type Rewriter struct {
	client    nlp.Client
	stopWords StopWords
	logger    *slog.Logger
}

// NewRewriter creates a Rewriter. A nil client forces the local fallbacks;
// nil stopWords selects the built-in default list.
func NewRewriter(client nlp.Client, stopWords StopWords, logger *slog.Logger) *Rewriter {
	if stopWords == nil {
		stopWords = DefaultStopWords()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{
		client:    client,
		stopWords: stopWords,
		logger:    logger,
	}
}

// Rewrite turns any query into a comma-separated keyword list for the
// lexical retriever. Always returns a usable string.
func (r *Rewriter) Rewrite(ctx context.Context, query string) string {
	if keywords, ok := r.complete(ctx, prompts.RewriteQuery(query)); ok {
		return keywords
	}
	return r.enhanceLocally(query)
}

// ExtractKeywords pulls searchable keywords out of a natural-language query.
// Always returns a usable string.
func (r *Rewriter) ExtractKeywords(ctx context.Context, query string) string {
	if keywords, ok := r.complete(ctx, prompts.ExtractKeywords(query)); ok {
		return keywords
	}
	return r.extractLocally(query)
}

// complete runs one chat completion. No retries: the first failure hands the
// query to the local fallback immediately.
func (r *Rewriter) complete(ctx context.Context, messages []types.Message) (string, bool) {
	if r.client == nil {
		return "", false
	}
	resp, err := r.client.Chat(ctx, messages)
	if err != nil {
		r.logger.Warn("query rewriting degraded to local fallback", "error", err)
		return "", false
	}
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		r.logger.Warn("query rewriting returned an empty completion, using local fallback")
		return "", false
	}
	return content, true
}

// extractLocally is the deterministic keyword extraction: lowercase, split on
// anything that is not a letter, digit, or underscore, drop stop words and
// terms shorter than three characters, join with ", ". CJK input passes
// through trimmed: English stop-word stripping would mangle it and there is
// no delimiter to split on.
func (r *Rewriter) extractLocally(query string) string {
	if utils.ContainsCJK(query) {
		return strings.TrimSpace(query)
	}
	fields := strings.FieldsFunc(strings.ToLower(query), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_'
	})
	keywords := make([]string, 0, len(fields))
	for _, word := range fields {
		if len(word) <= 2 || r.stopWords.Contains(word) {
			continue
		}
		keywords = append(keywords, word)
	}
	return strings.Join(keywords, ", ")
}

// fillerWords are stripped by the local rewrite fallback. The fallback keeps
// the query otherwise intact: a structured keyword list loses meaning under
// aggressive rewriting.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true,
	"for": true, "with": true, "by": true,
}

func (r *Rewriter) enhanceLocally(query string) string {
	lower := strings.ToLower(strings.TrimSpace(query))
	if utils.ContainsCJK(lower) {
		return lower
	}
	fields := strings.Fields(lower)
	kept := make([]string, 0, len(fields))
	for _, word := range fields {
		if fillerWords[word] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
