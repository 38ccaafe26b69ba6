// Command collect samples CPU and wakeup metrics from a connected Android
// device while a test scenario runs, writing cpu.csv, wakeups.csv and a
// run.json manifest into the result directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/esm-android/esm-testing/internal/collect"
	"github.com/esm-android/esm-testing/internal/device"
	"github.com/esm-android/esm-testing/pkg/runinfo"
)

func main() {
	var (
		serial    = flag.String("serial", "", "adb device serial (default: the only connected device)")
		label     = flag.String("label", "baseline", "run label, e.g. baseline or esm")
		outDir    = flag.String("out", "results", "output directory for result CSVs and the run manifest")
		durationS = flag.Int("duration", 60, "sampling duration in seconds")
		intervalS = flag.Int("interval", 1, "sampling interval in seconds")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := device.NewADBRunner(*serial, logger)
	if err := runner.VerifyConnection(ctx); err != nil {
		log.Fatalf("device check: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	duration := time.Duration(*durationS) * time.Second
	interval := time.Duration(*intervalS) * time.Second
	sampler := collect.NewSampler(runner, interval, logger)

	info := runinfo.New(*label, uuid.NewString(), probeDevice(ctx, runner, *serial))
	info.DurationSeconds = duration.Seconds()
	info.IntervalSeconds = interval.Seconds()

	logger.InfoContext(ctx, "collecting device metrics",
		"label", *label, "duration", duration, "out", *outDir)

	var cpu []collect.CPUSample
	var wakeups []collect.WakeupSample

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cpu, err = sampler.SampleCPU(gctx, duration)
		return err
	})
	g.Go(func() error {
		var err error
		wakeups, err = sampler.SampleWakeups(gctx, duration)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("sampling: %v", err)
	}

	if err := writeCSV(filepath.Join(*outDir, "cpu.csv"), func(f *os.File) error {
		return collect.WriteCPUCSV(f, cpu)
	}); err != nil {
		log.Fatalf("write cpu.csv: %v", err)
	}
	if err := writeCSV(filepath.Join(*outDir, "wakeups.csv"), func(f *os.File) error {
		return collect.WriteWakeupsCSV(f, wakeups)
	}); err != nil {
		log.Fatalf("write wakeups.csv: %v", err)
	}

	info.SampleCounts["cpu.csv"] = len(cpu)
	info.SampleCounts["wakeups.csv"] = len(wakeups)
	info.SkippedTicks = sampler.Overruns()
	if err := runinfo.Write(info, filepath.Join(*outDir, "run.json")); err != nil {
		log.Fatalf("write run manifest: %v", err)
	}

	fmt.Printf("Collected %d cpu samples, %d wakeup samples into %s\n",
		len(cpu), len(wakeups), *outDir)
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// probeDevice fills the manifest's device block; failures leave fields empty
// rather than aborting the run.
func probeDevice(ctx context.Context, runner device.Runner, serial string) runinfo.DeviceInfo {
	info := runinfo.DeviceInfo{Serial: serial}
	if out, err := runner.Shell(ctx, "getprop ro.product.model"); err == nil {
		info.Model = strings.TrimSpace(out)
	}
	if out, err := runner.Shell(ctx, "getprop ro.build.version.release"); err == nil {
		info.AndroidVersion = strings.TrimSpace(out)
	}
	return info
}
