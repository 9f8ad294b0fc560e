package prompts

import (
	"fmt"

	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

// RewriteQuery builds the messages for expanding any query, keyword or
// sentence, into search terms suited to a package registry index.
func RewriteQuery(query string) []types.Message {
	sysPrompt := `You are an assistant that rewrites software package search queries.
Analyze the input and generate keywords suited to a package registry search engine.
Whether the input is a keyword list or a natural-language question, convert it into
a list of relevant technical terms and synonyms. Return a comma-separated keyword
list with no explanation.`

	if utils.ContainsCJK(query) {
		sysPrompt += `
The query contains Chinese text: cover both the Chinese concepts and their common
English technical equivalents, since package names and descriptions are indexed in English.`
	}

	userPrompt := fmt.Sprintf("Generate a comma-separated list of package search keywords for: %s", query)

	return []types.Message{
		nlp.NewSystemMessage(sysPrompt),
		nlp.NewUserMessage(userPrompt),
	}
}

// ExtractKeywords builds the messages for pulling searchable keywords out of
// a natural-language request.
func ExtractKeywords(query string) []types.Message {
	sysPrompt := `You are an expert at extracting software package keywords from natural-language queries.
Analyze the user's question and identify the core concepts and functional requirements
relevant to a package ecosystem. Return only a comma-separated keyword list.`

	if utils.ContainsCJK(query) {
		sysPrompt += `
The query contains Chinese text: cover both the Chinese concepts and their common
English technical equivalents, since package names and descriptions are indexed in English.`
	}

	userPrompt := fmt.Sprintf("Extract keywords for a package search from the following query (return a comma-separated list): %s", query)

	return []types.Message{
		nlp.NewSystemMessage(sysPrompt),
		nlp.NewUserMessage(userPrompt),
	}
}
