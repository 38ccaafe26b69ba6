package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every shell command instead of talking to adb.
type fakeRunner struct {
	cmds []string
	err  error
}

func (f *fakeRunner) Shell(_ context.Context, cmd string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.cmds = append(f.cmds, cmd)
	return "", nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastConfig() TouchConfig {
	cfg := DefaultTouchConfig()
	cfg.TapDelay = time.Millisecond
	return cfg
}

func TestTapAndSwipeCommands(t *testing.T) {
	f := &fakeRunner{}
	g := NewInputGenerator(f, fastConfig(), quietLogger())
	ctx := context.Background()

	require.NoError(t, g.Tap(ctx, 540, 1170))
	require.NoError(t, g.Swipe(ctx, 540, 1500, 540, 500, 500*time.Millisecond))

	require.Len(t, f.cmds, 2)
	assert.Equal(t, "input tap 540 1170", f.cmds[0])
	assert.Equal(t, "input swipe 540 1500 540 500 500", f.cmds[1])
}

func TestSingleTap(t *testing.T) {
	f := &fakeRunner{}
	cfg := fastConfig()
	g := NewInputGenerator(f, cfg, quietLogger())

	n, err := g.SingleTap(context.Background(), 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, f.cmds, 5)

	for _, cmd := range f.cmds {
		var x, y int
		_, err := fmt.Sscanf(cmd, "input tap %d %d", &x, &y)
		require.NoError(t, err, "cmd %q", cmd)

		assert.GreaterOrEqual(t, x, cfg.SafeMargin)
		assert.Less(t, x, cfg.ScreenWidth-cfg.SafeMargin)
		assert.GreaterOrEqual(t, y, cfg.SafeMargin+200)
		assert.Less(t, y, cfg.ScreenHeight-cfg.SafeMargin-200)
	}
}

func TestSingleTapPropagatesError(t *testing.T) {
	wantErr := errors.New("device offline")
	g := NewInputGenerator(&fakeRunner{err: wantErr}, fastConfig(), quietLogger())

	n, err := g.SingleTap(context.Background(), 3, time.Millisecond)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, n)
}

func TestScrollAlternatesDirection(t *testing.T) {
	f := &fakeRunner{}
	g := NewInputGenerator(f, fastConfig(), quietLogger())

	events, err := g.Scroll(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2*eventsPerScroll, events)

	require.Len(t, f.cmds, 2)
	assert.Equal(t, "input swipe 540 1500 540 500 500", f.cmds[0])
	assert.Equal(t, "input swipe 540 500 540 1500 500", f.cmds[1])
}

func TestFastSwipeAlternatesDirection(t *testing.T) {
	f := &fakeRunner{}
	g := NewInputGenerator(f, fastConfig(), quietLogger())

	events, err := g.FastSwipe(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2*eventsPerSwipe, events)

	require.Len(t, f.cmds, 2)
	assert.Equal(t, "input swipe 540 1800 540 200 200", f.cmds[0])
	assert.Equal(t, "input swipe 540 200 540 1800 200", f.cmds[1])
}

func TestMixedInteractionZeroDuration(t *testing.T) {
	f := &fakeRunner{}
	g := NewInputGenerator(f, fastConfig(), quietLogger())

	stats, err := g.MixedInteraction(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, stats.Taps)
	assert.Zero(t, stats.TotalEvents)
	assert.Empty(t, f.cmds)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewInputGenerator(&fakeRunner{}, fastConfig(), quietLogger())

	// The tap itself goes through the fake; the inter-tap sleep observes the
	// canceled context.
	_, err := g.SingleTap(ctx, 2, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionIsStable(t *testing.T) {
	g := NewInputGenerator(&fakeRunner{}, fastConfig(), quietLogger())
	assert.NotEmpty(t, g.Session())
	assert.Equal(t, g.Session(), g.Session())

	other := NewInputGenerator(&fakeRunner{}, fastConfig(), quietLogger())
	assert.NotEqual(t, g.Session(), other.Session())
}

func TestDeviceAttached(t *testing.T) {
	out := "List of devices attached\nemulator-5554\tdevice\n1A2B3C\tunauthorized\n\n"

	assert.True(t, deviceAttached(out, ""))
	assert.True(t, deviceAttached(out, "emulator-5554"))
	assert.False(t, deviceAttached(out, "1A2B3C"))
	assert.False(t, deviceAttached(out, "missing-serial"))
	assert.False(t, deviceAttached("List of devices attached\n\n", ""))
}
