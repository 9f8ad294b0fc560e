package benchmark

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/trovato/pkg/utils"
)

// ReportRow is the parquet schema for one benchmark measurement.
type ReportRow struct {
	RunID         string    `parquet:"run_id"`
	RecordedAt    time.Time `parquet:"recorded_at"`
	Case          string    `parquet:"case"`
	Query         string    `parquet:"query"`
	Kind          string    `parquet:"kind"`
	Method        string    `parquet:"method"`
	Criteria      string    `parquet:"criteria"`
	AvgLatencyMS  float64   `parquet:"avg_latency_ms"`
	ResultCount   int       `parquet:"result_count"`
	TopName       string    `parquet:"top_name"`
	TopScore      float64   `parquet:"top_score"`
	Judged        bool      `parquet:"judged"`
	PrecisionAt1  float64   `parquet:"precision_at_1"`
	PrecisionAt3  float64   `parquet:"precision_at_3"`
	PrecisionAt5  float64   `parquet:"precision_at_5"`
	PrecisionAt10 float64   `parquet:"precision_at_10"`
	PrecisionAt20 float64   `parquet:"precision_at_20"`
	RelevantCount int       `parquet:"relevant_count"`
}

// WriteReport persists one parquet file holding all rows of a run under dir,
// creating the directory if needed, and returns the file path. Every row
// carries the same runID so runs stay separable after files are pooled.
func WriteReport(dir, runID string, results []Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	now := time.Now()
	rows := make([]ReportRow, 0, len(results))
	for _, res := range results {
		row := ReportRow{
			RunID:        runID,
			RecordedAt:   now.UTC(),
			Case:         res.Case,
			Query:        res.Query,
			Kind:         string(res.Kind),
			Method:       res.Method,
			Criteria:     string(res.Criteria),
			AvgLatencyMS: res.AvgLatencyMS,
			ResultCount:  res.ResultCount,
			TopName:      res.TopName,
			TopScore:     res.TopScore,
		}
		if res.Precision != nil {
			row.Judged = true
			row.PrecisionAt1 = res.Precision.At1
			row.PrecisionAt3 = res.Precision.At3
			row.PrecisionAt5 = res.Precision.At5
			row.PrecisionAt10 = res.Precision.At10
			row.PrecisionAt20 = res.Precision.At20
			row.RelevantCount = res.Precision.RelevantCount
		}
		rows = append(rows, row)
	}

	filename := fmt.Sprintf("benchmark_%s_%s.parquet", now.Format("20060102_150405"), runID)
	path := filepath.Join(dir, filename)
	if err := parquet.WriteFile(path, rows); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// WriteSummary renders results as a text table followed by the aggregate
// statistics read off after a run: overall and per-kind latency, the
// natural-language overhead percentage, and per-method precision averages
// when cells were judged.
func WriteSummary(w io.Writer, results []Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no benchmark results")
		return
	}

	judged := false
	for _, r := range results {
		if r.Precision != nil {
			judged = true
			break
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if judged {
		fmt.Fprintln(tw, "CASE\tKIND\tMETHOD\tCRITERIA\tAVG MS\tRESULTS\tP@1\tP@5\tP@10\tTOP HIT")
	} else {
		fmt.Fprintln(tw, "CASE\tKIND\tMETHOD\tCRITERIA\tAVG MS\tRESULTS\tTOP HIT")
	}
	for _, r := range results {
		top := "-"
		if r.TopName != "" {
			top = fmt.Sprintf("%s (%.4f)", utils.TruncateString(r.TopName, 40), r.TopScore)
		}
		if judged {
			p1, p5, p10 := "-", "-", "-"
			if r.Precision != nil {
				p1 = fmt.Sprintf("%.2f", r.Precision.At1)
				p5 = fmt.Sprintf("%.2f", r.Precision.At5)
				p10 = fmt.Sprintf("%.2f", r.Precision.At10)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%d\t%s\t%s\t%s\t%s\n",
				r.Case, r.Kind, r.Method, r.Criteria, r.AvgLatencyMS, r.ResultCount, p1, p5, p10, top)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%d\t%s\n",
				r.Case, r.Kind, r.Method, r.Criteria, r.AvgLatencyMS, r.ResultCount, top)
		}
	}
	tw.Flush()

	overall := averageLatency(results, func(Result) bool { return true })
	fmt.Fprintf(w, "\naverage latency: %.2f ms\n", overall)

	keyword := averageLatency(results, func(r Result) bool { return r.Kind == KindKeyword })
	natural := averageLatency(results, func(r Result) bool { return r.Kind == KindNatural })
	if keyword > 0 && natural > 0 {
		fmt.Fprintf(w, "keyword queries: %.2f ms, natural language: %.2f ms (%+.1f%% overhead)\n",
			keyword, natural, (natural/keyword-1)*100)
	}

	if !judged {
		return
	}
	engine, engineRelevant, engineCells := averagePrecision(results, MethodEngine)
	if engineCells > 0 {
		fmt.Fprintf(w, "engine precision: P@1=%.4f P@3=%.4f P@5=%.4f P@10=%.4f P@20=%.4f relevant=%.1f (%d cells)\n",
			engine.At1, engine.At3, engine.At5, engine.At10, engine.At20, engineRelevant, engineCells)
	}
	traditional, traditionalRelevant, traditionalCells := averagePrecision(results, MethodTraditional)
	if traditionalCells > 0 {
		fmt.Fprintf(w, "traditional precision: P@1=%.4f P@3=%.4f P@5=%.4f P@10=%.4f P@20=%.4f relevant=%.1f (%d cells)\n",
			traditional.At1, traditional.At3, traditional.At5, traditional.At10, traditional.At20,
			traditionalRelevant, traditionalCells)
	}
	if engineCells > 0 && traditionalCells > 0 &&
		traditional.At1 > 0 && traditional.At5 > 0 && traditional.At10 > 0 && traditional.At20 > 0 {
		fmt.Fprintf(w, "engine vs traditional: P@1 %+.1f%%  P@5 %+.1f%%  P@10 %+.1f%%  P@20 %+.1f%%\n",
			(engine.At1/traditional.At1-1)*100,
			(engine.At5/traditional.At5-1)*100,
			(engine.At10/traditional.At10-1)*100,
			(engine.At20/traditional.At20-1)*100)
	}
}

// averageLatency averages AvgLatencyMS over the rows matching the filter,
// zero when none match.
func averageLatency(results []Result, match func(Result) bool) float64 {
	var sum float64
	n := 0
	for _, r := range results {
		if match(r) {
			sum += r.AvgLatencyMS
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// averagePrecision averages the judged cells of one method. The second
// return is the mean relevant count, the third how many cells were judged.
func averagePrecision(results []Result, method string) (Precision, float64, int) {
	var avg Precision
	var relevant float64
	n := 0
	for _, r := range results {
		if r.Method != method || r.Precision == nil {
			continue
		}
		avg.At1 += r.Precision.At1
		avg.At3 += r.Precision.At3
		avg.At5 += r.Precision.At5
		avg.At10 += r.Precision.At10
		avg.At20 += r.Precision.At20
		relevant += float64(r.Precision.RelevantCount)
		n++
	}
	if n == 0 {
		return Precision{}, 0, 0
	}
	avg.At1 /= float64(n)
	avg.At3 /= float64(n)
	avg.At5 /= float64(n)
	avg.At10 /= float64(n)
	avg.At20 /= float64(n)
	return avg, relevant / float64(n), n
}
