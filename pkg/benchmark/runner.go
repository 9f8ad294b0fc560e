package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/trovato/pkg/types"
	"github.com/soundprediction/trovato/pkg/utils"
)

// Method labels for Result rows.
const (
	// MethodEngine marks measurements of the full hybrid pipeline.
	MethodEngine = "engine"
	// MethodTraditional marks measurements of the no-remote keyword path.
	MethodTraditional = "traditional"
)

const defaultIterations = 3

// Searcher is the slice of the engine a benchmark run drives.
// *search.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error)
	SearchTraditional(ctx context.Context, query string, sortBy types.SortCriteria) ([]types.Candidate, error)
}

// Options tune a run. The zero value measures the hybrid engine three times
// per case over all three sort criteria.
type Options struct {
	// Iterations is how many searches each (case, method, criteria) cell
	// gets; latency is averaged across them. Defaults to 3.
	Iterations int
	// Criteria lists the sort criteria to measure. Defaults to all three.
	Criteria []types.SortCriteria
	// Compare also measures the traditional path for every cell.
	Compare bool
	// Judge, when set, grades the last result list of every cell. Judging
	// failures degrade to ungraded cells; they never abort the run.
	Judge *Judge
	// Pause separates iterations so back-to-back calls don't ride warm
	// caches. Zero means no pause.
	Pause time.Duration
}

// Result is one measured (case, method, criteria) cell.
type Result struct {
	Case         string
	Query        string
	Kind         Kind
	Method       string
	Criteria     types.SortCriteria
	AvgLatencyMS float64
	ResultCount  int
	TopName      string
	TopScore     float64
	// Precision is nil when the cell was not judged.
	Precision *Precision
}

// Runner drives benchmark suites against a search engine.
type Runner struct {
	searcher Searcher
	opts     Options
	logger   *slog.Logger
}

// NewRunner builds a runner. A nil opts selects the defaults.
func NewRunner(searcher Searcher, opts *Options, logger *slog.Logger) *Runner {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.Iterations <= 0 {
		o.Iterations = defaultIterations
	}
	if len(o.Criteria) == 0 {
		o.Criteria = []types.SortCriteria{
			types.SortComprehensive,
			types.SortRelevance,
			types.SortDownloads,
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{searcher: searcher, opts: o, logger: logger}
}

// Run measures every case in the suite and returns one Result per
// (case, method, criteria) cell in suite order, engine rows before
// traditional ones. A failing search aborts the run: the engine only errors
// on the backing store, and timings against a broken store are meaningless.
func (r *Runner) Run(ctx context.Context, suite []Case) (results []Result, err error) {
	defer utils.RecoverAsError(&err)

	methods := []string{MethodEngine}
	if r.opts.Compare {
		methods = append(methods, MethodTraditional)
	}

	for _, c := range suite {
		for _, method := range methods {
			for _, criteria := range r.opts.Criteria {
				res, err := r.measure(ctx, c, method, criteria)
				if err != nil {
					return nil, err
				}
				results = append(results, *res)
			}
		}
	}
	return results, nil
}

func (r *Runner) measure(ctx context.Context, c Case, method string, criteria types.SortCriteria) (*Result, error) {
	var (
		total time.Duration
		last  []types.Candidate
	)
	for i := 0; i < r.opts.Iterations; i++ {
		if i > 0 && r.opts.Pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.opts.Pause):
			}
		}

		start := time.Now()
		var (
			found []types.Candidate
			err   error
		)
		if method == MethodTraditional {
			found, err = r.searcher.SearchTraditional(ctx, c.Query, criteria)
		} else {
			found, err = r.searcher.Search(ctx, c.Query, criteria)
		}
		if err != nil {
			return nil, fmt.Errorf("%s search %q: %w", method, c.Query, err)
		}
		total += time.Since(start)
		last = found
	}

	res := &Result{
		Case:         c.Name,
		Query:        c.Query,
		Kind:         c.Kind,
		Method:       method,
		Criteria:     criteria,
		AvgLatencyMS: total.Seconds() * 1000 / float64(r.opts.Iterations),
		ResultCount:  len(last),
	}
	if len(last) > 0 {
		res.TopName = last[0].Name
		res.TopScore = last[0].FinalScore
	}

	if r.opts.Judge != nil && len(last) > 0 {
		judgments, err := r.opts.Judge.Judge(ctx, c.Query, last)
		if err != nil {
			r.logger.Warn("relevance judging unavailable for cell",
				"case", c.Name, "method", method, "error", err)
		} else {
			p := MeasurePrecision(last, judgments)
			res.Precision = &p
		}
	}

	r.logger.Debug("benchmark cell measured",
		"case", c.Name, "method", method, "criteria", criteria,
		"avg_ms", res.AvgLatencyMS, "results", res.ResultCount)
	return res, nil
}
