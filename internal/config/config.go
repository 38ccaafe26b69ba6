// Package config holds the YAML configuration for the testing toolkit: which
// metrics to compare, how to present the analysis and how to drive the
// device.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Analysis struct {
		// Alpha is the significance threshold for the comparison verdict.
		Alpha          float64 `yaml:"alpha"`
		Title          string  `yaml:"title"`
		BaselineLabel  string  `yaml:"baseline_label"`
		CandidateLabel string  `yaml:"candidate_label"`
	} `yaml:"analysis"`

	Device struct {
		Serial           string `yaml:"serial"`
		ScreenWidth      int    `yaml:"screen_width"`
		ScreenHeight     int    `yaml:"screen_height"`
		SafeMargin       int    `yaml:"safe_margin"`
		TapDelayMs       int    `yaml:"tap_delay_ms"`
		ScrollDurationMs int    `yaml:"scroll_duration_ms"`
		SwipeDurationMs  int    `yaml:"swipe_duration_ms"`
	} `yaml:"device"`

	Metrics []Metric `yaml:"metrics"`
}

// Metric binds a display name to its source column in the collected result
// files.
type Metric struct {
	Name string `yaml:"name"`
	// File is the result CSV name, resolved inside each configuration's
	// result directory.
	File   string `yaml:"file"`
	Column string `yaml:"column"`
	// Scenario filters rows by the "scenario" column when non-empty.
	Scenario      string `yaml:"scenario"`
	LowerIsBetter bool   `yaml:"lower_is_better"`
}

// Load reads a config file and fills unset analysis fields with defaults. An
// empty metric list falls back to the default metric set.
func Load(path string) (Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// Default is the configuration the reference test runs shipped with: input
// latency per scenario, CPU, syscall and wakeup metrics, all lower-is-better.
func Default() Config {
	var c Config
	c.Metrics = []Metric{
		{Name: "Latency - Single Tap (ms)", File: "latency.csv", Column: "latency_ms", Scenario: "single_tap", LowerIsBetter: true},
		{Name: "Latency - Scroll (ms)", File: "latency.csv", Column: "latency_ms", Scenario: "scroll", LowerIsBetter: true},
		{Name: "Latency - Fast Swipe (ms)", File: "latency.csv", Column: "latency_ms", Scenario: "fast_swipe", LowerIsBetter: true},
		{Name: "CPU - system_server (%)", File: "cpu.csv", Column: "system_server_cpu", LowerIsBetter: true},
		{Name: "CPU - Total (%)", File: "cpu.csv", Column: "total_cpu", LowerIsBetter: true},
		{Name: "Syscalls (per 100 events)", File: "syscalls.csv", Column: "total", LowerIsBetter: true},
		{Name: "Wakeups per second", File: "wakeups.csv", Column: "wakeups_per_sec", LowerIsBetter: true},
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Analysis.Alpha == 0 {
		c.Analysis.Alpha = 0.05
	}
	if c.Analysis.Title == "" {
		c.Analysis.Title = "ESM Performance Test Results"
	}
	if c.Analysis.BaselineLabel == "" {
		c.Analysis.BaselineLabel = "Baseline (epoll)"
	}
	if c.Analysis.CandidateLabel == "" {
		c.Analysis.CandidateLabel = "ESM"
	}
	if len(c.Metrics) == 0 {
		c.Metrics = Default().Metrics
	}
	d := &c.Device
	if d.ScreenWidth == 0 {
		d.ScreenWidth = 1080
	}
	if d.ScreenHeight == 0 {
		d.ScreenHeight = 2340
	}
	if d.SafeMargin == 0 {
		d.SafeMargin = 100
	}
	if d.TapDelayMs == 0 {
		d.TapDelayMs = 100
	}
	if d.ScrollDurationMs == 0 {
		d.ScrollDurationMs = 500
	}
	if d.SwipeDurationMs == 0 {
		d.SwipeDurationMs = 200
	}
}
