// Package report renders comparison results into the markdown report format
// the analysis pipeline has always produced: a summary table, per-metric
// detail blocks and a validated/unvalidated conclusions section. Rendering is
// pure formatting; no numeric value is recomputed or altered.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/esm-android/esm-testing/pkg/compare"
	"github.com/esm-android/esm-testing/pkg/stats"
)

// Options control presentation only.
type Options struct {
	// Title is the report heading. Defaults to "ESM Performance Test Results".
	Title string
	// BaselineLabel heads the baseline detail blocks, e.g. "Baseline (epoll)".
	BaselineLabel string
	// CandidateLabel heads the candidate detail blocks and the summary table
	// column, e.g. "ESM".
	CandidateLabel string
	// Now supplies the generation timestamp; defaults to time.Now.
	Now func() time.Time
}

// Builder assembles markdown reports from ordered comparison results.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder, filling unset options with the historical
// defaults.
func NewBuilder(opts Options) *Builder {
	if opts.Title == "" {
		opts.Title = "ESM Performance Test Results"
	}
	if opts.BaselineLabel == "" {
		opts.BaselineLabel = "Baseline (epoll)"
	}
	if opts.CandidateLabel == "" {
		opts.CandidateLabel = "ESM"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{opts: opts}
}

// Write renders the report for results, preserving their order. Error records
// appear in the summary table with their error text only and are skipped in
// the detail section.
func (b *Builder) Write(w io.Writer, results []compare.Result) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", b.opts.Title)
	fmt.Fprintf(&sb, "Generated: %s\n\n", b.opts.Now().Format(time.UnixDate))

	b.writeSummary(&sb, results)
	b.writeDetails(&sb, results)
	b.writeConclusions(&sb, results)

	_, err := io.WriteString(w, sb.String())
	return err
}

func (b *Builder) writeSummary(sb *strings.Builder, results []compare.Result) {
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(sb, "| Metric | Baseline | %s | Improvement | p-value | Effect Size |\n", b.opts.CandidateLabel)
	sb.WriteString("|--------|----------|-----|-------------|---------|-------------|\n")

	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(sb, "| %s | Error: %s | | | | |\n", r.Metric, r.Err)
			continue
		}

		sig := ""
		if r.Significant {
			sig = "*"
		}
		fmt.Fprintf(sb, "| %s | %.2f (n=%d) | %.2f (n=%d) | %+.1f%% | %.4f%s | %s (d=%.2f) |\n",
			r.Metric,
			r.Baseline.Mean, r.Baseline.N,
			r.Candidate.Mean, r.Candidate.N,
			r.ImprovementPct,
			r.PValue, sig,
			r.EffectSize, r.CohensD)
	}

	sb.WriteString("\n*p < 0.05 (statistically significant)\n\n")
}

func (b *Builder) writeDetails(sb *strings.Builder, results []compare.Result) {
	sb.WriteString("## Detailed Results\n\n")

	for _, r := range results {
		if r.Failed() {
			continue
		}

		fmt.Fprintf(sb, "### %s\n\n", r.Metric)
		writeSummaryBlock(sb, b.opts.BaselineLabel, r.Baseline)
		writeSummaryBlock(sb, b.opts.CandidateLabel, r.Candidate)

		sb.WriteString("**Statistical Analysis**\n")
		fmt.Fprintf(sb, "- Improvement: %+.1f%%\n", r.ImprovementPct)
		fmt.Fprintf(sb, "- t-statistic: %.3f\n", r.TStatistic)
		fmt.Fprintf(sb, "- p-value: %.4f\n", r.PValue)
		fmt.Fprintf(sb, "- Cohen's d: %.3f (%s)\n", r.CohensD, r.EffectSize)
		fmt.Fprintf(sb, "- Significant (p<0.05): %s\n\n", yesNo(r.Significant))
	}
}

func writeSummaryBlock(sb *strings.Builder, label string, s stats.Summary) {
	fmt.Fprintf(sb, "**%s**\n", label)
	fmt.Fprintf(sb, "- Mean: %.2f\n", s.Mean)
	fmt.Fprintf(sb, "- Std Dev: %.2f\n", s.Std)
	fmt.Fprintf(sb, "- 95%% CI: [%.2f, %.2f]\n", s.CILower, s.CIUpper)
	fmt.Fprintf(sb, "- Range: [%.2f, %.2f]\n", s.Min, s.Max)
	fmt.Fprintf(sb, "- n: %d\n\n", s.N)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (b *Builder) writeConclusions(sb *strings.Builder, results []compare.Result) {
	sb.WriteString("## Conclusions\n\n")

	ok := lo.Filter(results, func(r compare.Result, _ int) bool { return !r.Failed() })

	// Asymmetric partition by design: a claim is validated only when both the
	// direction and the significance hold, and counted unvalidated whenever
	// the direction is wrong, significant or not. Metrics that improved
	// without significance land in neither bucket.
	validated := lo.Filter(ok, func(r compare.Result, _ int) bool { return r.Significant && r.Improved })
	unvalidated := lo.Filter(ok, func(r compare.Result, _ int) bool { return !r.Improved })

	if len(validated) > 0 {
		sb.WriteString("**Validated claims** (statistically significant improvement):\n")
		for _, name := range lo.Map(validated, metricName) {
			fmt.Fprintf(sb, "- %s\n", name)
		}
		sb.WriteString("\n")
	}

	if len(unvalidated) > 0 {
		sb.WriteString("**Unvalidated claims** (no significant improvement or regression):\n")
		for _, name := range lo.Map(unvalidated, metricName) {
			fmt.Fprintf(sb, "- %s\n", name)
		}
		sb.WriteString("\n")
	}
}

func metricName(r compare.Result, _ int) string { return r.Metric }
