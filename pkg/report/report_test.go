package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esm-android/esm-testing/pkg/compare"
	"github.com/esm-android/esm-testing/pkg/stats"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
}

func okResult(name string, improved, significant bool) compare.Result {
	return compare.Result{
		Metric:         name,
		Baseline:       stats.Summary{N: 3, Mean: 100, Std: 10, Min: 90, Max: 110, CILower: 88.45, CIUpper: 111.55},
		Candidate:      stats.Summary{N: 3, Mean: 80, Std: 10, Min: 70, Max: 90, CILower: 68.45, CIUpper: 91.55},
		ImprovementPct: 20,
		Improved:       improved,
		TStatistic:     2.449,
		PValue:         0.0123,
		CohensD:        2.0,
		EffectSize:     "large",
		Significant:    significant,
	}
}

func render(t *testing.T, results []compare.Result) string {
	t.Helper()
	var sb strings.Builder
	err := NewBuilder(Options{Now: fixedNow}).Write(&sb, results)
	require.NoError(t, err)
	return sb.String()
}

func TestWriteHeaderAndDefaults(t *testing.T) {
	out := render(t, nil)

	assert.Contains(t, out, "# ESM Performance Test Results\n")
	assert.Contains(t, out, "Generated: "+fixedNow().Format(time.UnixDate)+"\n")
	assert.Contains(t, out, "| Metric | Baseline | ESM | Improvement | p-value | Effect Size |")
	assert.Contains(t, out, "*p < 0.05 (statistically significant)")
}

func TestWriteSummaryRowFormat(t *testing.T) {
	out := render(t, []compare.Result{okResult("Latency (ms)", true, true)})

	assert.Contains(t, out,
		"| Latency (ms) | 100.00 (n=3) | 80.00 (n=3) | +20.0% | 0.0123* | large (d=2.00) |")
}

func TestWriteSummaryNoSignificanceMarker(t *testing.T) {
	r := okResult("Latency (ms)", true, false)
	r.PValue = 0.2345
	out := render(t, []compare.Result{r})

	assert.Contains(t, out, "| 0.2345 |")
	assert.NotContains(t, out, "0.2345*")
}

func TestWriteErrorRecord(t *testing.T) {
	results := []compare.Result{
		{Metric: "broken", Err: compare.ErrInsufficientData},
		okResult("working", true, true),
	}
	out := render(t, results)

	assert.Contains(t, out, "| broken | Error: Insufficient data | | | | |")

	// Error records get no detail block.
	assert.NotContains(t, out, "### broken")
	assert.Contains(t, out, "### working")
}

func TestWriteDetailBlock(t *testing.T) {
	out := render(t, []compare.Result{okResult("Latency (ms)", true, true)})

	assert.Contains(t, out, "**Baseline (epoll)**\n")
	assert.Contains(t, out, "- Mean: 100.00\n")
	assert.Contains(t, out, "- Std Dev: 10.00\n")
	assert.Contains(t, out, "- 95% CI: [88.45, 111.55]\n")
	assert.Contains(t, out, "- Range: [90.00, 110.00]\n")
	assert.Contains(t, out, "- n: 3\n")

	assert.Contains(t, out, "- Improvement: +20.0%\n")
	assert.Contains(t, out, "- t-statistic: 2.449\n")
	assert.Contains(t, out, "- p-value: 0.0123\n")
	assert.Contains(t, out, "- Cohen's d: 2.000 (large)\n")
	assert.Contains(t, out, "- Significant (p<0.05): Yes\n")
}

func TestWriteCustomLabels(t *testing.T) {
	var sb strings.Builder
	b := NewBuilder(Options{
		Title:          "Nightly Comparison",
		BaselineLabel:  "v1",
		CandidateLabel: "v2",
		Now:            fixedNow,
	})
	require.NoError(t, b.Write(&sb, []compare.Result{okResult("m", true, true)}))
	out := sb.String()

	assert.Contains(t, out, "# Nightly Comparison\n")
	assert.Contains(t, out, "| Metric | Baseline | v2 | Improvement | p-value | Effect Size |")
	assert.Contains(t, out, "**v1**\n")
	assert.Contains(t, out, "**v2**\n")
}

func TestWriteConclusionsPartition(t *testing.T) {
	results := []compare.Result{
		okResult("validated-metric", true, true),     // improved and significant
		okResult("regressed-metric", false, true),    // not improved: unvalidated
		okResult("inconclusive-metric", true, false), // improved but not significant: neither
		{Metric: "broken", Err: compare.ErrInsufficientData},
	}
	out := render(t, results)

	idx := strings.Index(out, "## Conclusions")
	require.GreaterOrEqual(t, idx, 0)
	conclusions := out[idx:]

	assert.Contains(t, conclusions, "**Validated claims** (statistically significant improvement):\n- validated-metric\n")
	assert.Contains(t, conclusions, "**Unvalidated claims** (no significant improvement or regression):\n- regressed-metric\n")
	assert.NotContains(t, conclusions, "inconclusive-metric")
	assert.NotContains(t, conclusions, "broken")
}

func TestWriteConclusionsOmitsEmptyBuckets(t *testing.T) {
	out := render(t, []compare.Result{okResult("m", true, false)})

	assert.Contains(t, out, "## Conclusions")
	assert.NotContains(t, out, "**Validated claims**")
	assert.NotContains(t, out, "**Unvalidated claims**")
}
