// Command parsetrace converts collected trace logs into latency CSVs for
// analysis. Three formats are supported: raw ftrace (IRQ-to-input latency),
// ftrace dispatch latency (input_event to InputDispatcher wakeup) and
// getevent -lt captures (gesture time spread).
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/esm-android/esm-testing/internal/trace"
)

func main() {
	var (
		mode      = flag.String("mode", "dispatch", "trace format: ftrace|dispatch|getevent")
		outPath   = flag.String("out", "latency.csv", "output CSV path")
		aggregate = flag.Bool("aggregate", false, "ftrace mode: one whole-trace latency per file instead of per-event latencies")
		verbose   = flag.Bool("v", false, "print per-file diagnostics")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: parsetrace [flags] <trace file or directory>")
		os.Exit(2)
	}

	files, err := traceFiles(flag.Arg(0))
	if err != nil {
		log.Fatalf("list traces: %v", err)
	}
	if len(files) == 0 {
		// Still write a valid empty CSV so downstream analysis sees the file.
		if err := writeCSV(*outPath, nil); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		fmt.Fprintf(os.Stderr, "no trace files found in %s\n", flag.Arg(0))
		return
	}

	fmt.Printf("Found %d trace files\n", len(files))

	perFile, err := parseAll(context.Background(), files, *mode, *aggregate, *verbose)
	if err != nil {
		log.Fatalf("parse traces: %v", err)
	}

	var rows []sampleRow
	for i, latencies := range perFile {
		scenario := trace.ScenarioFromFilename(filepath.Base(files[i]))
		for j, ms := range latencies {
			rows = append(rows, sampleRow{scenario: scenario, sample: j + 1, latencyMs: ms})
		}
	}

	if err := writeCSV(*outPath, rows); err != nil {
		log.Fatalf("write csv: %v", err)
	}
	fmt.Printf("Results written to: %s\n", *outPath)

	printSummary(rows)
}

type sampleRow struct {
	scenario  string
	sample    int
	latencyMs float64
}

// parseAll fans the files out across CPUs, bounded by a semaphore, and keeps
// the per-file results in input order.
func parseAll(ctx context.Context, files []string, mode string, aggregate, verbose bool) ([][]float64, error) {
	out := make([][]float64, len(files))

	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	g, ctx := errgroup.WithContext(ctx)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			latencies, err := parseFile(path, mode, aggregate)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "%s: %d latency measurements\n", filepath.Base(path), len(latencies))
			}
			out[i] = latencies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseFile(path, mode string, aggregate bool) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch mode {
	case "ftrace":
		events, err := trace.ReadFtrace(f)
		if err != nil {
			return nil, err
		}
		if aggregate {
			if ms, ok := trace.AggregateLatency(events); ok {
				return []float64{ms}, nil
			}
			return nil, nil
		}
		return trace.PerEventLatencies(events), nil

	case "dispatch":
		measurements, err := trace.ReadDispatchLatencies(f)
		if err != nil {
			return nil, err
		}
		latencies := make([]float64, 0, len(measurements))
		for _, m := range measurements {
			latencies = append(latencies, m.LatencyMs)
		}
		return latencies, nil

	case "getevent":
		events, err := trace.ReadGetevent(f)
		if err != nil {
			return nil, err
		}
		if ms, ok := trace.GestureSpread(events); ok {
			return []float64{ms}, nil
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func traceFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	files, err := filepath.Glob(filepath.Join(target, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func writeCSV(path string, rows []sampleRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"scenario", "sample", "latency_ms"}); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{row.scenario, fmt.Sprintf("%d", row.sample), fmt.Sprintf("%.3f", row.latencyMs)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printSummary(rows []sampleRow) {
	byScenario := map[string][]float64{}
	for _, row := range rows {
		byScenario[row.scenario] = append(byScenario[row.scenario], row.latencyMs)
	}

	scenarios := make([]string, 0, len(byScenario))
	for s := range byScenario {
		scenarios = append(scenarios, s)
	}
	sort.Strings(scenarios)

	fmt.Println("\nSummary:")
	for _, scenario := range scenarios {
		latencies := byScenario[scenario]
		var sum, minLat, maxLat float64
		minLat, maxLat = latencies[0], latencies[0]
		for _, ms := range latencies {
			sum += ms
			if ms < minLat {
				minLat = ms
			}
			if ms > maxLat {
				maxLat = ms
			}
		}
		mean := sum / float64(len(latencies))
		fmt.Printf("  %s: n=%d, mean=%.3fms, min=%.3fms, max=%.3fms\n",
			scenario, len(latencies), mean, minLat, maxLat)
	}
}
