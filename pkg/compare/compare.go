// Package compare orchestrates the per-metric A/B comparison: descriptive
// statistics for both configurations, Welch's t-test, Cohen's d and the
// improvement verdict under the metric's polarity.
package compare

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/esm-android/esm-testing/pkg/stats"
)

var (
	// ErrInsufficientData marks a comparison whose baseline or candidate
	// sample was empty. The run continues for other metrics.
	ErrInsufficientData = errors.New("Insufficient data")

	// ErrDegenerateBaseline marks a comparison whose baseline mean is zero,
	// making the relative improvement undefined.
	ErrDegenerateBaseline = errors.New("Degenerate baseline (mean is zero)")
)

// Metric identifies one measured quantity to compare between the two
// configurations.
type Metric struct {
	// Name is the display identifier, e.g. "Latency - Single Tap (ms)".
	Name string
	// LowerIsBetter sets the sign convention for improvement. It never
	// affects the t-test or the effect size, which are polarity-agnostic.
	LowerIsBetter bool
}

// Result is the comparison outcome for a single metric. When Err is set the
// record carries only the metric name; no partial statistics are attached.
type Result struct {
	Metric string
	Err    error

	Baseline  stats.Summary
	Candidate stats.Summary

	ImprovementPct float64
	Improved       bool
	TStatistic     float64
	PValue         float64
	CohensD        float64
	EffectSize     string
	Significant    bool
}

// Failed reports whether this is an error record.
func (r Result) Failed() bool { return r.Err != nil }

// DefaultAlpha is the significance threshold applied when none is configured.
const DefaultAlpha = 0.05

// Comparator compares baseline and candidate samples metric by metric. The
// significance threshold is explicit configuration rather than a hidden
// process-wide constant, so comparisons stay pure functions of their inputs.
type Comparator struct {
	alpha float64
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithAlpha overrides the significance threshold used for the "significant"
// verdict.
func WithAlpha(alpha float64) Option {
	return func(c *Comparator) {
		if alpha > 0 {
			c.alpha = alpha
		}
	}
}

// NewComparator returns a Comparator with DefaultAlpha unless overridden.
func NewComparator(opts ...Option) *Comparator {
	c := &Comparator{alpha: DefaultAlpha}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare evaluates one metric. The significance test and effect size run on
// the raw samples, not the summaries, since they need per-observation
// variance. Empty samples and a zero-mean baseline produce error records
// instead of propagating NaN or infinity.
func (c *Comparator) Compare(metric Metric, baseline, candidate []float64) Result {
	base, err := stats.Describe(baseline)
	if err != nil {
		return Result{Metric: metric.Name, Err: ErrInsufficientData}
	}
	cand, err := stats.Describe(candidate)
	if err != nil {
		return Result{Metric: metric.Name, Err: ErrInsufficientData}
	}

	if base.Mean == 0 {
		return Result{Metric: metric.Name, Err: ErrDegenerateBaseline}
	}

	var improvement float64
	var improved bool
	if metric.LowerIsBetter {
		improvement = (base.Mean - cand.Mean) / base.Mean * 100
		improved = cand.Mean < base.Mean
	} else {
		improvement = (cand.Mean - base.Mean) / base.Mean * 100
		improved = cand.Mean > base.Mean
	}

	tt := stats.WelchTTest(baseline, candidate)
	d := stats.CohensD(baseline, candidate)

	return Result{
		Metric:         metric.Name,
		Baseline:       base,
		Candidate:      cand,
		ImprovementPct: improvement,
		Improved:       improved,
		TStatistic:     tt.T,
		PValue:         tt.P,
		CohensD:        d,
		EffectSize:     stats.EffectSizeLabel(d),
		Significant:    tt.P < c.alpha,
	}
}

// CompareAll evaluates every metric, one comparison per goroutine. Each
// comparison is an independent pure computation, so the only shared state is
// the result slice, which is indexed by request position: the returned order
// always matches the order of metrics, not completion order.
func (c *Comparator) CompareAll(ctx context.Context, metrics []Metric, baseline, candidate map[string][]float64) ([]Result, error) {
	results := make([]Result, len(metrics))

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range metrics {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Compare(m, baseline[m.Name], candidate[m.Name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
