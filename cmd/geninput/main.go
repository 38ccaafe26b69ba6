// Command geninput injects synthetic touch input on a connected Android
// device for reproducible performance test runs.
//
// Usage:
//
//	geninput tap [-count 100] [-delay 100]
//	geninput scroll [-count 20]
//	geninput swipe [-count 20]
//	geninput mixed [-duration 60]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esm-android/esm-testing/internal/config"
	"github.com/esm-android/esm-testing/internal/device"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	var (
		serial     = fs.String("serial", "", "adb device serial (default: the only connected device)")
		configPath = fs.String("config", "", "optional device config YAML")
		count      = fs.Int("count", defaultCount(command), "number of gestures to generate")
		delayMs    = fs.Int("delay", 0, "tap mode: delay between taps in ms (0 uses the configured delay)")
		durationS  = fs.Int("duration", 60, "mixed mode: total duration in seconds")
		verbose    = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *serial == "" {
		*serial = cfg.Device.Serial
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := device.NewADBRunner(*serial, logger)
	if err := runner.VerifyConnection(ctx); err != nil {
		log.Fatalf("device check: %v", err)
	}

	gen := device.NewInputGenerator(runner, touchConfig(cfg), logger)

	switch command {
	case "tap":
		fmt.Printf("Generating %d single taps...\n", *count)
		n, err := gen.SingleTap(ctx, *count, time.Duration(*delayMs)*time.Millisecond)
		if err != nil {
			log.Fatalf("tap: %v", err)
		}
		fmt.Printf("Generated %d taps\n", n)

	case "scroll":
		fmt.Printf("Generating %d scroll gestures...\n", *count)
		events, err := gen.Scroll(ctx, *count)
		if err != nil {
			log.Fatalf("scroll: %v", err)
		}
		fmt.Printf("Generated ~%d events\n", events)

	case "swipe":
		fmt.Printf("Generating %d fast swipes...\n", *count)
		events, err := gen.FastSwipe(ctx, *count)
		if err != nil {
			log.Fatalf("swipe: %v", err)
		}
		fmt.Printf("Generated ~%d events\n", events)

	case "mixed":
		fmt.Printf("Generating %ds of mixed interaction...\n", *durationS)
		stats, err := gen.MixedInteraction(ctx, time.Duration(*durationS)*time.Second)
		if err != nil {
			log.Fatalf("mixed: %v", err)
		}
		fmt.Printf("Stats: taps=%d scrolls=%d swipes=%d total_events=%d\n",
			stats.Taps, stats.Scrolls, stats.Swipes, stats.TotalEvents)

	default:
		usage()
		os.Exit(2)
	}
}

func touchConfig(cfg config.Config) device.TouchConfig {
	return device.TouchConfig{
		ScreenWidth:    cfg.Device.ScreenWidth,
		ScreenHeight:   cfg.Device.ScreenHeight,
		SafeMargin:     cfg.Device.SafeMargin,
		TapDelay:       time.Duration(cfg.Device.TapDelayMs) * time.Millisecond,
		ScrollDuration: time.Duration(cfg.Device.ScrollDurationMs) * time.Millisecond,
		SwipeDuration:  time.Duration(cfg.Device.SwipeDurationMs) * time.Millisecond,
	}
}

func defaultCount(command string) int {
	if command == "tap" {
		return 100
	}
	return 20
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: geninput <tap|scroll|swipe|mixed> [flags]")
	fmt.Fprintln(os.Stderr, "run 'geninput <command> -h' for command flags")
}
