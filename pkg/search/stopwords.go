package search

import (
	"bufio"
	"os"
	"strings"
)

// defaultStopWords backs keyword extraction when no stop-word file is
// configured. It mixes English function words with terms so common in
// package queries that they carry no retrieval signal.
var defaultStopWords = []string{
	"a", "an", "the", "is", "are", "was", "were", "be",
	"in", "on", "at", "by", "for", "with", "about", "against",
	"how", "what", "where", "when", "why", "who", "which",
	"and", "or", "if", "but", "because", "as", "until", "while",
	"of", "to", "from",
	"need", "want", "find", "looking", "search",
	"rust", "crate",
}

// StopWords is the term set dropped by local keyword extraction.
type StopWords map[string]struct{}

// NewStopWords builds a case-insensitive set from the given words.
func NewStopWords(words []string) StopWords {
	set := make(StopWords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// DefaultStopWords returns the built-in stop-word set.
func DefaultStopWords() StopWords {
	return NewStopWords(defaultStopWords)
}

// Contains reports whether word is a stop word.
func (s StopWords) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// LoadStopWords reads a stop-word list from path: one term per line, blank
// lines and //-prefixed comment lines skipped. An empty path, unreadable
// file, or empty list falls back to the built-in default.
func LoadStopWords(path string) StopWords {
	if path == "" {
		return DefaultStopWords()
	}
	f, err := os.Open(path)
	if err != nil {
		return DefaultStopWords()
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		words = append(words, line)
	}
	if scanner.Err() != nil || len(words) == 0 {
		return DefaultStopWords()
	}
	return NewStopWords(words)
}
