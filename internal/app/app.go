// Package app wires configuration, logging and the comparison pipeline for
// the analyze command.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/esm-android/esm-testing/internal/config"
	"github.com/esm-android/esm-testing/internal/resultset"
	"github.com/esm-android/esm-testing/pkg/compare"
	"github.com/esm-android/esm-testing/pkg/report"
)

type Application struct {
	Config     config.Config
	Logger     *slog.Logger
	Comparator *compare.Comparator
	Report     *report.Builder
}

// New builds the analysis application. An empty config path uses the default
// metric set.
func New(configPath string) (*Application, error) {
	var cfg config.Config
	if configPath == "" {
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &Application{
		Config:     cfg,
		Logger:     log,
		Comparator: compare.NewComparator(compare.WithAlpha(cfg.Analysis.Alpha)),
		Report: report.NewBuilder(report.Options{
			Title:          cfg.Analysis.Title,
			BaselineLabel:  cfg.Analysis.BaselineLabel,
			CandidateLabel: cfg.Analysis.CandidateLabel,
		}),
	}, nil
}

// Analyze loads both result directories and compares every configured metric.
// Results come back in configuration order; metrics whose samples are missing
// on either side surface as error records rather than aborting the run.
func (a *Application) Analyze(ctx context.Context, baselineDir, candidateDir string) ([]compare.Result, error) {
	metrics := make([]compare.Metric, 0, len(a.Config.Metrics))
	baseline := make(map[string][]float64, len(a.Config.Metrics))
	candidate := make(map[string][]float64, len(a.Config.Metrics))

	baseRows := map[string][]resultset.Row{}
	candRows := map[string][]resultset.Row{}

	for _, mc := range a.Config.Metrics {
		bRows, err := loadCached(baseRows, baselineDir, mc.File)
		if err != nil {
			return nil, err
		}
		cRows, err := loadCached(candRows, candidateDir, mc.File)
		if err != nil {
			return nil, err
		}

		baseline[mc.Name] = resultset.Column(bRows, mc.Column, mc.Scenario)
		candidate[mc.Name] = resultset.Column(cRows, mc.Column, mc.Scenario)
		metrics = append(metrics, compare.Metric{Name: mc.Name, LowerIsBetter: mc.LowerIsBetter})

		a.Logger.DebugContext(ctx, "loaded metric samples",
			"metric", mc.Name,
			"baseline_n", len(baseline[mc.Name]),
			"candidate_n", len(candidate[mc.Name]))
	}

	return a.Comparator.CompareAll(ctx, metrics, baseline, candidate)
}

// loadCached loads a result file once per directory, reusing parsed rows for
// metrics that share a file.
func loadCached(cache map[string][]resultset.Row, dir, file string) ([]resultset.Row, error) {
	if rows, ok := cache[file]; ok {
		return rows, nil
	}
	rows, err := resultset.Load(filepath.Join(dir, file))
	if err != nil {
		return nil, err
	}
	cache[file] = rows
	return rows, nil
}
