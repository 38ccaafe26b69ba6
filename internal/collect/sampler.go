// Package collect samples CPU and wakeup metrics from a connected device
// while a test scenario runs, and writes them as the result CSVs the analysis
// pipeline consumes.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/esm-android/esm-testing/internal/device"
)

// CPUSample is one dumpsys cpuinfo reading.
type CPUSample struct {
	Timestamp       time.Time
	SystemServerPct float64
	TotalPct        float64
}

// WakeupSample is the interrupt rate between two /proc/interrupts readings.
type WakeupSample struct {
	Timestamp time.Time
	PerSecond float64
}

// Sampler polls a device for load metrics at a fixed interval. Samples run
// one at a time through a Gate; a tick that lands while the previous adb
// round-trip is still in flight is skipped and counted.
type Sampler struct {
	runner   device.Runner
	logger   *slog.Logger
	interval time.Duration
	gate     *Gate
}

// NewSampler creates a sampler. A zero interval defaults to one second.
func NewSampler(runner device.Runner, interval time.Duration, logger *slog.Logger) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Sampler{
		runner:   runner,
		logger:   logger,
		interval: interval,
		gate:     NewGate(1),
	}
}

// Overruns reports how many ticks were skipped because a sample was still in
// flight.
func (s *Sampler) Overruns() int64 { return s.gate.Metrics().Overruns }

// SampleCPU polls dumpsys cpuinfo for the given duration and returns one
// sample per successful reading. Readings that do not contain both the
// system_server and TOTAL lines are dropped.
func (s *Sampler) SampleCPU(ctx context.Context, duration time.Duration) ([]CPUSample, error) {
	var samples []CPUSample

	err := s.tick(ctx, duration, func(ctx context.Context, now time.Time) error {
		out, err := s.runner.Shell(ctx, "dumpsys cpuinfo")
		if err != nil {
			return fmt.Errorf("dumpsys cpuinfo: %w", err)
		}
		sys, total, ok := parseCPUInfo(out)
		if !ok {
			s.logger.DebugContext(ctx, "cpuinfo reading incomplete, dropped")
			return nil
		}
		samples = append(samples, CPUSample{Timestamp: now, SystemServerPct: sys, TotalPct: total})
		return nil
	})
	return samples, err
}

// SampleWakeups polls /proc/interrupts for the given duration and returns the
// interrupt rate between consecutive readings.
func (s *Sampler) SampleWakeups(ctx context.Context, duration time.Duration) ([]WakeupSample, error) {
	var samples []WakeupSample
	var prevTotal int64
	var prevAt time.Time

	err := s.tick(ctx, duration, func(ctx context.Context, now time.Time) error {
		out, err := s.runner.Shell(ctx, "cat /proc/interrupts")
		if err != nil {
			return fmt.Errorf("read /proc/interrupts: %w", err)
		}
		total := parseInterruptTotal(out)
		if !prevAt.IsZero() {
			elapsed := now.Sub(prevAt).Seconds()
			if elapsed > 0 && total >= prevTotal {
				samples = append(samples, WakeupSample{
					Timestamp: now,
					PerSecond: float64(total-prevTotal) / elapsed,
				})
			}
		}
		prevTotal, prevAt = total, now
		return nil
	})
	return samples, err
}

// tick runs fn once per interval until duration elapses. Samples never
// overlap: a tick arriving while fn is still running is dropped through the
// gate.
func (s *Sampler) tick(ctx context.Context, duration time.Duration, fn func(context.Context, time.Time) error) error {
	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if now.After(deadline) {
				return nil
			}
			if !s.gate.TryAcquire() {
				s.gate.Overrun()
				continue
			}
			err := fn(ctx, now)
			s.gate.Release()
			if err != nil {
				return err
			}
		}
	}
}

var (
	// "  4.1% 1233/system_server: 2.9% user + 1.2% kernel"
	cpuProcessLine = regexp.MustCompile(`([\d.]+)%\s+\d+/system_server:`)
	// "10% TOTAL: 5.2% user + 4.1% kernel + ..."
	cpuTotalLine = regexp.MustCompile(`([\d.]+)%\s+TOTAL:`)
)

// parseCPUInfo extracts the system_server and TOTAL percentages from dumpsys
// cpuinfo output.
func parseCPUInfo(out string) (systemServer, total float64, ok bool) {
	m := cpuProcessLine.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, false
	}
	systemServer, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}

	m = cpuTotalLine.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, false
	}
	total, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return systemServer, total, true
}

// parseInterruptTotal sums every per-CPU interrupt count in a
// /proc/interrupts dump. The first line is the CPU header; each following
// line is "IRQ: count count ... controller name".
func parseInterruptTotal(out string) int64 {
	var total int64
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasSuffix(fields[0], ":") {
			continue
		}
		for _, f := range fields[1:] {
			n, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				break
			}
			total += n
		}
	}
	return total
}
