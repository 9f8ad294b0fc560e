package prompts

import (
	"fmt"
	"strings"

	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/types"
)

// RelevanceJudgment is one package's verdict from the relevance judge.
type RelevanceJudgment struct {
	PackageName string  `json:"package_name"`
	IsRelevant  bool    `json:"is_relevant"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// JudgmentResponse is the JSON document the relevance judge is asked to emit.
type JudgmentResponse struct {
	Judgments []RelevanceJudgment `json:"judgments"`
}

// JudgeRelevance builds the messages asking the model to judge, for one
// query, whether each candidate package is relevant. Descriptions are
// flattened to single lines so the numbered list stays parseable.
func JudgeRelevance(query string, candidates []types.Candidate) []types.Message {
	sysPrompt := `You are an expert software engineering assistant that evaluates search result relevance.
Given a search query and a list of packages with their descriptions, judge whether each
package is relevant to the query. Be consistent and strict: a package is relevant only if
a developer issuing that query would plausibly want it.`

	var listing strings.Builder
	for i, c := range candidates {
		desc := strings.ReplaceAll(c.Description, "\n", " ")
		fmt.Fprintf(&listing, "Package %d: %s - %s\n", i+1, c.Name, desc)
	}

	userPrompt := fmt.Sprintf(`Query: %q

Search results:
%s
Judge the relevance of every package above. Respond with JSON in exactly this shape:
{"judgments": [{
  "package_name": "name",
  "is_relevant": true,
  "confidence": 0.0,
  "reasoning": "short justification"
}, ...]}
Return only the JSON, no other text.`, query, listing.String())

	return []types.Message{
		nlp.NewSystemMessage(sysPrompt),
		nlp.NewUserMessage(userPrompt),
	}
}
