package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

// Strategy weights and per-strategy fetch limits. Weight order is also the
// dedup priority: a candidate keeps the weight of the first strategy that
// produced it.
const (
	weightExact  = 1.0
	weightPrefix = 0.8
	weightLoose  = 0.6
	weightPhrase = 0.5

	exactSearchLimit  = 50
	prefixSearchLimit = 150
	looseSearchLimit  = 150
	phraseSearchLimit = 200

	// backfillThreshold triggers the phrase pass when the merged candidate
	// set is still this small after all variants ran.
	backfillThreshold = 10
)

// traditionalStopWords is the English stop-word list used for query-variant
// generation. Broader than the extraction list: variant generation wants
// aggressive stripping because the original query is always kept as its own
// variant.
var traditionalStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "in": true, "on": true, "at": true,
	"by": true, "for": true, "with": true, "is": true, "are": true,
	"was": true, "were": true, "of": true, "to": true, "from": true,
	"and": true, "or": true, "but": true, "how": true, "what": true,
	"which": true, "who": true, "when": true, "where": true, "why": true,
	"can": true, "could": true, "need": true, "want": true, "rust": true,
	"crate": true, "library": true, "package": true, "help": true,
	"please": true, "find": true, "looking": true, "search": true,
	"get": true, "use": true, "using": true, "implement": true,
}

// cjkTraditionalStopWords are request phrases stripped from CJK queries
// before variant generation.
var cjkTraditionalStopWords = []string{
	"如何", "怎么", "什么", "哪个", "为什么", "能否", "可以", "请问",
	"有没有", "想要", "需要", "使用", "寻找", "查找", "搜索", "获取",
	"我要", "帮我", "推荐",
}

// TraditionalSearcher is the no-remote-capability retrieval path: classic
// keyword matching with heuristic strategy weights, no rewriting and no
// embeddings.
type TraditionalSearcher struct {
	store  store.Store
	logger *slog.Logger
}

// NewTraditionalSearcher creates a TraditionalSearcher over the given store.
func NewTraditionalSearcher(st store.Store, logger *slog.Logger) *TraditionalSearcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TraditionalSearcher{store: st, logger: logger}
}

type weightedCandidate struct {
	candidate types.Candidate
	weight    float64
}

// Search expands the query into variants, runs three weighted strategies per
// variant, deduplicates by id (first occurrence wins), backfills with a
// phrase pass when results are scarce, and ranks by
// lexicalScore × strategyWeight × criteriaMultiplier, capped at 100.
func (t *TraditionalSearcher) Search(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error) {
	variants := queryVariants(query)
	t.logger.Debug("traditional search variants", "query", query, "variants", variants)

	seen := make(map[string]struct{})
	var merged []weightedCandidate
	add := func(candidates []types.Candidate, weight float64) {
		for _, c := range candidates {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, weightedCandidate{candidate: c, weight: weight})
		}
	}

	for _, variant := range variants {
		exact, err := t.store.SearchExact(ctx, variant, exactSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("exact search: %w", err)
		}
		add(exact, weightExact)

		if tsquery := prefixTSQuery(variant); tsquery != "" {
			prefix, err := t.store.SearchTSQuery(ctx, tsquery, prefixSearchLimit)
			if err != nil {
				return nil, fmt.Errorf("prefix search: %w", err)
			}
			add(prefix, weightPrefix)
		}

		loose, err := t.store.SearchLoose(ctx, variant, looseSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("loose search: %w", err)
		}
		add(loose, weightLoose)
	}

	// The phrase pass runs against the original, unsplit query.
	if len(merged) < backfillThreshold && len(variants) > 0 {
		phrase, err := t.store.SearchPhrase(ctx, strings.TrimSpace(query), phraseSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("phrase search: %w", err)
		}
		add(phrase, weightPhrase)
	}

	multiplier := criteriaMultiplier(sortBy)
	results := make([]types.Candidate, 0, len(merged))
	for _, wc := range merged {
		c := wc.candidate
		c.SemanticScore = 0
		c.FinalScore = c.LexicalScore * wc.weight * multiplier
		results = append(results, c)
	}

	sortByFinalScore(results)
	return truncateCandidates(results, maxResults), nil
}

// criteriaMultiplier scales traditional scores per sort criteria. Relevance
// boosts lexical rank; Downloads damps it, leaving room for a popularity
// term that does not participate yet.
func criteriaMultiplier(c types.SortCriteria) float64 {
	switch c {
	case types.SortRelevance:
		return 1.2
	case types.SortDownloads:
		return 0.8
	default:
		return 1.0
	}
}

// prefixTSQuery builds a per-word prefix expression for one variant, keeping
// only words of two or more bytes. Returns "" when no usable word remains.
func prefixTSQuery(variant string) string {
	words := strings.Fields(variant)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) >= 2 {
			terms = append(terms, w+":*")
		}
	}
	return strings.Join(terms, " | ")
}

// queryVariants generates the lexical variants one query is searched under:
// the original; a CJK stop-word-stripped form; an extracted-Latin form for
// mixed script; an English stop-word-stripped form; sliding bigrams and
// trigrams for longer queries; and first/second halves for very long ones.
func queryVariants(query string) []string {
	var variants []string
	appendVariant := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(variants, v) {
			variants = append(variants, v)
		}
	}

	original := strings.TrimSpace(query)
	appendVariant(original)

	lower := strings.ToLower(original)
	hasCJK := utils.ContainsCJK(lower)
	hasLatin := containsASCIIAlpha(lower)

	if hasCJK {
		stripped := lower
		for _, w := range cjkTraditionalStopWords {
			stripped = strings.ReplaceAll(stripped, w, " ")
		}
		appendVariant(stripped)

		if hasLatin {
			appendVariant(extractASCIIAlpha(stripped))
		}
	}

	if hasLatin {
		words := strings.Fields(lower)
		kept := make([]string, 0, len(words))
		for _, w := range words {
			if !traditionalStopWords[w] {
				kept = append(kept, w)
			}
		}
		appendVariant(strings.Join(kept, " "))

		if len(kept) >= 2 {
			for i := 0; i+1 < len(kept); i++ {
				appendVariant(kept[i] + " " + kept[i+1])
			}
			if len(kept) >= 3 {
				for i := 0; i+2 < len(kept); i++ {
					appendVariant(kept[i] + " " + kept[i+1] + " " + kept[i+2])
				}
			}
			if len(kept) >= 4 {
				mid := len(kept) / 2
				appendVariant(strings.Join(kept[:mid], " "))
				appendVariant(strings.Join(kept[mid:], " "))
			}
		}
	}

	if len(variants) == 0 && lower != "" {
		variants = append(variants, lower)
	}
	return variants
}

func containsASCIIAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// extractASCIIAlpha keeps ASCII letters and collapses everything else to
// single spaces, pulling the Latin part out of a mixed-script query.
func extractASCIIAlpha(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
