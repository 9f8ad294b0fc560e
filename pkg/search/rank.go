package search

import (
	"sort"

	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

// maxResults caps every ranked result list.
const maxResults = 100

// Weights is the lexical/semantic blend applied for one sort criteria.
type Weights struct {
	Lexical  float64
	Semantic float64
}

// WeightsFor returns the fixed blend for a sort criteria. Unknown criteria
// fall back to the comprehensive blend. Downloads uses an even blend today:
// the downloads column is carried through the store but deliberately does
// not participate in scoring yet, so this is the single place a popularity
// term would be added.
func WeightsFor(criteria types.SortCriteria) Weights {
	switch criteria {
	case types.SortRelevance:
		return Weights{Lexical: 0.8, Semantic: 0.2}
	case types.SortDownloads:
		return Weights{Lexical: 0.5, Semantic: 0.5}
	default:
		return Weights{Lexical: 0.6, Semantic: 0.4}
	}
}

// CombineScores fuses a lexical and a semantic score under the blend
// selected by criteria.
func CombineScores(lexical, semantic float64, criteria types.SortCriteria) float64 {
	w := WeightsFor(criteria)
	return w.Lexical*lexical + w.Semantic*semantic
}

// rankHybrid scores candidates against the query embedding and orders them
// by the fused score. Candidates without a resolved vector keep a zero
// semantic score but still participate.
func rankHybrid(candidates []types.Candidate, queryVec []float32, vectors map[string][]float32, criteria types.SortCriteria) []types.Candidate {
	ranked := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if vec, ok := vectors[c.ID]; ok {
			c.SemanticScore = utils.CosineSimilarity(queryVec, vec)
		} else {
			c.SemanticScore = 0
		}
		c.FinalScore = CombineScores(c.LexicalScore, c.SemanticScore, criteria)
		ranked = append(ranked, c)
	}
	sortByFinalScore(ranked)
	return truncateCandidates(ranked, maxResults)
}

// rankLexicalOnly orders candidates by lexical score alone. Used when the
// query embedding cannot be resolved and the semantic path is skipped.
func rankLexicalOnly(candidates []types.Candidate) []types.Candidate {
	ranked := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.SemanticScore = 0
		c.FinalScore = c.LexicalScore
		ranked = append(ranked, c)
	}
	sortByFinalScore(ranked)
	return truncateCandidates(ranked, maxResults)
}

// sortByFinalScore orders by FinalScore descending with id as the
// deterministic tiebreak.
func sortByFinalScore(candidates []types.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FinalScore != candidates[j].FinalScore {
			return candidates[i].FinalScore > candidates[j].FinalScore
		}
		return candidates[i].ID < candidates[j].ID
	})
}

func truncateCandidates(candidates []types.Candidate, limit int) []types.Candidate {
	if len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}
