// Command analyze compares baseline and candidate performance result
// directories and writes a markdown report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/esm-android/esm-testing/internal/app"
)

func main() {
	var (
		baselineDir  = flag.String("baseline", "results/baseline", "directory containing baseline result CSVs")
		candidateDir = flag.String("candidate", "results/esm", "directory containing candidate result CSVs")
		configPath   = flag.String("config", "", "optional analysis config YAML (defaults to the built-in metric set)")
		outPath      = flag.String("out", "report.md", "output report path, or - for stdout")
	)
	flag.Parse()

	application, err := app.New(*configPath)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	results, err := application.Analyze(context.Background(), *baselineDir, *candidateDir)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}
	if len(results) == 0 {
		log.Fatal("no metrics configured, nothing to analyze")
	}

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create report: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := application.Report.Write(out, results); err != nil {
		log.Fatalf("write report: %v", err)
	}
	if *outPath != "-" {
		fmt.Printf("Report generated: %s\n", *outPath)
	}
}
