package benchmark

import (
	"strings"

	"github.com/soundprediction/trovato/pkg/types"
)

// Precision is the judged quality of one ranked result list. Cutoffs shrink
// to the list length when fewer results were returned.
type Precision struct {
	At1           float64
	At3           float64
	At5           float64
	At10          float64
	At20          float64
	RelevantCount int
}

// PrecisionAtK computes the fraction of the first k flags that are true.
// An empty list or non-positive k scores zero; k larger than the list
// shrinks to the list length.
func PrecisionAtK(flags []bool, k int) float64 {
	if len(flags) == 0 || k <= 0 {
		return 0
	}
	if k > len(flags) {
		k = len(flags)
	}
	hits := 0
	for _, relevant := range flags[:k] {
		if relevant {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// MeasurePrecision flags each result against judgments keyed by lowercased
// package name and computes precision at the standard cutoffs. Results
// without a judgment count as irrelevant.
func MeasurePrecision(results []types.Candidate, judgments map[string]bool) Precision {
	flags := make([]bool, len(results))
	relevant := 0
	for i, c := range results {
		if judgments[strings.ToLower(c.Name)] {
			flags[i] = true
			relevant++
		}
	}
	return Precision{
		At1:           PrecisionAtK(flags, 1),
		At3:           PrecisionAtK(flags, 3),
		At5:           PrecisionAtK(flags, 5),
		At10:          PrecisionAtK(flags, 10),
		At20:          PrecisionAtK(flags, 20),
		RelevantCount: relevant,
	}
}
