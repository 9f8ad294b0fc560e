package benchmark

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/trovato/pkg/types"
)

func TestWriteReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	results := []Result{
		{
			Case:         "http-client",
			Query:        "http client",
			Kind:         KindKeyword,
			Method:       MethodEngine,
			Criteria:     types.SortComprehensive,
			AvgLatencyMS: 12.5,
			ResultCount:  5,
			TopName:      "reqwest",
			TopScore:     0.91,
			Precision:    &Precision{At1: 1, At3: 1, At5: 0.8, At10: 0.6, At20: 0.5, RelevantCount: 10},
		},
		{
			Case:         "json-parsing-zh",
			Query:        "如何解析JSON数据？",
			Kind:         KindNatural,
			Method:       MethodTraditional,
			Criteria:     types.SortRelevance,
			AvgLatencyMS: 8.25,
			ResultCount:  3,
			TopName:      "serde",
			TopScore:     0.42,
		},
	}

	path, err := WriteReport(dir, "run-123", results)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "run-123")
	assert.True(t, strings.HasSuffix(path, ".parquet"))

	rows, err := parquet.ReadFile[ReportRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "run-123", first.RunID)
	assert.Equal(t, "http-client", first.Case)
	assert.Equal(t, "engine", first.Method)
	assert.Equal(t, "comprehensive", first.Criteria)
	assert.InDelta(t, 12.5, first.AvgLatencyMS, 1e-9)
	assert.True(t, first.Judged)
	assert.InDelta(t, 1.0, first.PrecisionAt1, 1e-9)
	assert.InDelta(t, 0.5, first.PrecisionAt20, 1e-9)
	assert.Equal(t, 10, first.RelevantCount)
	assert.WithinDuration(t, time.Now().UTC(), first.RecordedAt, time.Minute)

	second := rows[1]
	assert.Equal(t, "run-123", second.RunID)
	assert.Equal(t, "如何解析JSON数据？", second.Query)
	assert.Equal(t, "natural", second.Kind)
	assert.Equal(t, "traditional", second.Method)
	assert.False(t, second.Judged)
	assert.Zero(t, second.PrecisionAt1)
	assert.Zero(t, second.RelevantCount)
}

func TestWriteSummary(t *testing.T) {
	results := []Result{
		{
			Case: "http-client", Query: "http client", Kind: KindKeyword,
			Method: MethodEngine, Criteria: types.SortComprehensive,
			AvgLatencyMS: 10, ResultCount: 5, TopName: "reqwest", TopScore: 0.9,
		},
		{
			Case: "http-client-zh", Query: "我需要一个HTTP客户端库", Kind: KindNatural,
			Method: MethodEngine, Criteria: types.SortComprehensive,
			AvgLatencyMS: 15, ResultCount: 5, TopName: "reqwest", TopScore: 0.8,
		},
	}

	var buf strings.Builder
	WriteSummary(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "reqwest (0.9000)")
	assert.Contains(t, out, "average latency: 12.50 ms")
	assert.Contains(t, out, "keyword queries: 10.00 ms, natural language: 15.00 ms (+50.0% overhead)")
	assert.NotContains(t, out, "P@1", "precision columns only appear for judged runs")
}

func TestWriteSummaryJudged(t *testing.T) {
	results := []Result{
		{
			Case: "http-client", Query: "http client", Kind: KindKeyword,
			Method: MethodEngine, Criteria: types.SortComprehensive,
			AvgLatencyMS: 10, ResultCount: 20, TopName: "reqwest", TopScore: 0.9,
			Precision: &Precision{At1: 1, At3: 0.9, At5: 0.8, At10: 0.6, At20: 0.5, RelevantCount: 10},
		},
		{
			Case: "http-client", Query: "http client", Kind: KindKeyword,
			Method: MethodTraditional, Criteria: types.SortComprehensive,
			AvgLatencyMS: 6, ResultCount: 20, TopName: "hyper", TopScore: 0.5,
			Precision: &Precision{At1: 0.5, At3: 0.45, At5: 0.4, At10: 0.3, At20: 0.25, RelevantCount: 5},
		},
	}

	var buf strings.Builder
	WriteSummary(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "engine precision: P@1=1.0000")
	assert.Contains(t, out, "traditional precision: P@1=0.5000")
	assert.Contains(t, out, "engine vs traditional: P@1 +100.0%")
	assert.Contains(t, out, "P@20 +100.0%")
}

func TestWriteSummaryNoTopHit(t *testing.T) {
	results := []Result{
		{
			Case: "obscure", Query: "no such thing", Kind: KindKeyword,
			Method: MethodEngine, Criteria: types.SortComprehensive,
			AvgLatencyMS: 3, ResultCount: 0,
		},
	}

	var buf strings.Builder
	WriteSummary(&buf, results)

	assert.Contains(t, buf.String(), "-", "empty cells render a dash for the top hit")
	assert.Contains(t, buf.String(), "average latency: 3.00 ms")
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf strings.Builder
	WriteSummary(&buf, nil)
	assert.Contains(t, buf.String(), "no benchmark results")
}
