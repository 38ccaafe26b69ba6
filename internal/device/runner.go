// Package device drives a connected Android device over adb: command
// execution and synthetic touch-input generation for reproducible performance
// test runs.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/semaphore"
)

// ErrNoDevice means adb found no connected device.
var ErrNoDevice = errors.New("no adb device connected")

// Runner executes shell commands on the device. It is the seam the input
// generator and tests use instead of a real adb transport.
type Runner interface {
	// Shell runs one `adb shell` command and returns its combined output.
	Shell(ctx context.Context, cmd string) (string, error)
}

// ADBRunner shells out to the adb binary. Input commands must arrive at the
// device in order, so dispatch is gated to one in-flight command.
type ADBRunner struct {
	serial string
	logger *slog.Logger
	gate   *semaphore.Weighted
}

// NewADBRunner returns a runner for the device with the given serial; an
// empty serial targets the default device.
func NewADBRunner(serial string, logger *slog.Logger) *ADBRunner {
	return &ADBRunner{
		serial: serial,
		logger: logger,
		gate:   semaphore.NewWeighted(1),
	}
}

// VerifyConnection checks that adb reports at least one attached device.
func (r *ADBRunner) VerifyConnection(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "adb", "devices").Output()
	if err != nil {
		return fmt.Errorf("run adb devices: %w", err)
	}
	if !deviceAttached(string(out), r.serial) {
		return ErrNoDevice
	}
	return nil
}

// deviceAttached parses `adb devices` output. An empty serial accepts any
// attached device; "unauthorized" and "offline" states do not count.
func deviceAttached(out, serial string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == "device" {
			if serial == "" || fields[0] == serial {
				return true
			}
		}
	}
	return false
}

// Shell implements Runner.
func (r *ADBRunner) Shell(ctx context.Context, cmd string) (string, error) {
	if err := r.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.gate.Release(1)

	args := []string{"shell", cmd}
	if r.serial != "" {
		args = append([]string{"-s", r.serial}, args...)
	}

	r.logger.DebugContext(ctx, "adb shell", "cmd", cmd)
	out, err := exec.CommandContext(ctx, "adb", args...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("adb shell %q: %w", cmd, err)
	}
	return string(out), nil
}

var _ Runner = (*ADBRunner)(nil)
