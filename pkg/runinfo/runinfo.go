// Package runinfo describes one collection run: what device it ran on, how
// long it sampled and what it produced. The manifest is written next to the
// result CSVs so analysis output can always be traced back to its run.
package runinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type DeviceInfo struct {
	Serial         string `json:"serial"`
	Model          string `json:"model"`
	AndroidVersion string `json:"android_version"`
}

type RunInfo struct {
	Version          string     `json:"version"`
	TimestampRFC3339 string     `json:"timestamp_rfc3339"`
	Label            string     `json:"label"`
	Session          string     `json:"session"`
	Device           DeviceInfo `json:"device"`
	DurationSeconds  float64    `json:"duration_seconds"`
	IntervalSeconds  float64    `json:"interval_seconds"`
	// SampleCounts maps result file name to the number of samples collected.
	SampleCounts map[string]int `json:"sample_counts"`
	// SkippedTicks is the number of sampling ticks dropped because the
	// previous device round-trip was still in flight.
	SkippedTicks int64 `json:"skipped_ticks"`
}

// New returns a RunInfo stamped with the current time and manifest version.
func New(label, session string, dev DeviceInfo) RunInfo {
	return RunInfo{
		Version:          "1",
		TimestampRFC3339: time.Now().Format(time.RFC3339),
		Label:            label,
		Session:          session,
		Device:           dev,
		SampleCounts:     make(map[string]int),
	}
}

// Write marshals the manifest as indented JSON to path, or to stdout when
// path is empty.
func Write(info RunInfo, path string) error {
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run info: %w", err)
	}
	b = append(b, '\n')
	if path == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write run info: %w", err)
	}
	return nil
}
