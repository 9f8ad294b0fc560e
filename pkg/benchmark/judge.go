package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/trovato/pkg/nlp"
	"github.com/soundprediction/trovato/pkg/prompts"
	"github.com/soundprediction/trovato/pkg/types"
)

const (
	// judgeWindow caps how many results per cell are submitted for judgment.
	judgeWindow = 20
	// judgeBatchSize is how many candidates share one chat call, keeping
	// each prompt well under the judge model's context limit.
	judgeBatchSize = 5
)

// ErrNoJudge reports that relevance judging was requested without a chat
// client to judge with.
var ErrNoJudge = errors.New("relevance judging requires a chat client")

// Judge grades search results with a chat model: for each (query, package)
// pair it records a boolean relevance verdict. Verdicts are cached when a
// JudgmentCache is attached, so only unseen pairs cost a chat call.
type Judge struct {
	chat   nlp.Client
	cache  *JudgmentCache
	logger *slog.Logger
}

// NewJudge builds a judge over a chat client. The cache is optional.
func NewJudge(chat nlp.Client, cache *JudgmentCache, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{chat: chat, cache: cache, logger: logger}
}

// Judge evaluates up to the first 20 results and returns verdicts keyed by
// lowercased package name. Chat transport failures surface as errors; a
// batch whose response cannot be decoded even after repair is logged and
// left unjudged.
func (j *Judge) Judge(ctx context.Context, query string, results []types.Candidate) (map[string]bool, error) {
	if j.chat == nil {
		return nil, ErrNoJudge
	}
	if len(results) > judgeWindow {
		results = results[:judgeWindow]
	}

	judgments := make(map[string]bool, len(results))
	missing := results
	if j.cache != nil {
		missing = nil
		for _, c := range results {
			if relevant, ok := j.cache.Get(query, c.Name); ok {
				judgments[strings.ToLower(c.Name)] = relevant
				continue
			}
			missing = append(missing, c)
		}
	}

	for start := 0; start < len(missing); start += judgeBatchSize {
		end := start + judgeBatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		messages := prompts.JudgeRelevance(query, batch)
		resp, err := j.chat.ChatWithStructuredOutput(ctx, messages, &prompts.JudgmentResponse{})
		if err != nil {
			return nil, fmt.Errorf("relevance judgment: %w", err)
		}

		parsed, err := decodeJudgments(resp.Content)
		if err != nil {
			j.logger.Warn("judgment batch undecodable, leaving batch unjudged",
				"query", query, "batch_size", len(batch), "error", err)
			continue
		}
		for _, verdict := range parsed.Judgments {
			judgments[strings.ToLower(verdict.PackageName)] = verdict.IsRelevant
			if j.cache != nil {
				if err := j.cache.Put(query, verdict.PackageName, verdict.IsRelevant); err != nil {
					j.logger.Warn("judgment cache write failed", "error", err)
				}
			}
		}
	}
	return judgments, nil
}

// decodeJudgments parses a judge response through the lenient two-stage
// decode: strict JSON first, then one repair-and-retry pass for the
// almost-JSON chat models sometimes emit.
func decodeJudgments(content string) (*prompts.JudgmentResponse, error) {
	var out prompts.JudgmentResponse
	if err := nlp.UnmarshalLenient(content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
