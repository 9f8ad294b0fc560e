package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/soundprediction/trovato/pkg/utils"
)

// englishQuestionWords flag a query as natural language when any of them
// appears as a standalone token.
var englishQuestionWords = map[string]bool{
	"how": true, "what": true, "which": true, "where": true, "who": true,
	"why": true, "can": true, "could": true, "help": true, "find": true,
	"need": true, "want": true, "looking": true,
}

// cjkRequestWords mark interrogative or request phrasing anywhere in a CJK
// query, which has no word delimiters to tokenize on.
var cjkRequestWords = []string{
	"如何", "怎么", "什么", "哪个", "哪里", "为什么", "能否", "可以",
	"请问", "有没有", "需要", "想要", "寻找", "查找", "推荐", "帮我",
}

const (
	// sentencePunctuation terminates sentences in either script.
	sentencePunctuation = "?？.。"
	// cjkInterrogativeMarkers close a CJK question.
	cjkInterrogativeMarkers = "吗呢"
)

// NormalizedQuery is the outcome of classifying a raw query.
type NormalizedQuery struct {
	// Terms is the NFKC-folded, trimmed, lowercased form of the input.
	Terms string
	// NaturalLanguage reports whether the input reads as a sentence or
	// request rather than a structured keyword list.
	NaturalLanguage bool
}

// NormalizeQuery folds and trims a raw query and classifies it. Structured
// keyword queries skip the remote extraction step entirely, so the
// classification errs on the side of keywords for short inputs. NFKC folding
// runs first so full-width Latin text behaves like ASCII.
func NormalizeQuery(query string) NormalizedQuery {
	folded := strings.TrimSpace(norm.NFKC.String(query))
	return NormalizedQuery{
		Terms:           strings.ToLower(folded),
		NaturalLanguage: IsNaturalLanguage(folded),
	}
}

// IsNaturalLanguage reports whether query reads as a sentence or request
// rather than a keyword list. The heuristic accepts a query as natural
// language on any of: token count above a script-dependent threshold (CJK
// sentences are denser, so their threshold is lower), sentence punctuation,
// an interrogative or request word, or a CJK interrogative marker on a
// multi-token query.
func IsNaturalLanguage(query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return false
	}

	cjk := utils.ContainsCJK(q)
	tokens := tokenCount(q)
	if cjk && tokens > 2 {
		return true
	}
	if !cjk && tokens > 3 {
		return true
	}
	if strings.ContainsAny(q, sentencePunctuation) {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(q)) {
		if englishQuestionWords[word] {
			return true
		}
	}
	if cjk {
		for _, w := range cjkRequestWords {
			if strings.Contains(q, w) {
				return true
			}
		}
		if tokens > 1 && strings.ContainsAny(q, cjkInterrogativeMarkers) {
			return true
		}
	}
	return false
}

// tokenCount estimates how many meaningful tokens a query holds. Latin text
// contributes whitespace-separated words; CJK text carries no delimiters, so
// every two ideographs count as one token.
func tokenCount(q string) int {
	var latin strings.Builder
	cjkRunes := 0
	for _, r := range q {
		if utils.IsCJKRune(r) {
			cjkRunes++
			latin.WriteByte(' ')
		} else {
			latin.WriteRune(r)
		}
	}
	return len(strings.Fields(latin.String())) + cjkRunes/2
}
