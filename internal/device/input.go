package device

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// TouchConfig describes the touch-event generation parameters for a device
// screen.
type TouchConfig struct {
	ScreenWidth  int
	ScreenHeight int
	// SafeMargin keeps generated points away from screen edges; random
	// points additionally avoid the status and navigation bar areas.
	SafeMargin     int
	TapDelay       time.Duration
	ScrollDuration time.Duration
	SwipeDuration  time.Duration
}

// DefaultTouchConfig matches the Pixel 5 screen the reference runs used.
func DefaultTouchConfig() TouchConfig {
	return TouchConfig{
		ScreenWidth:    1080,
		ScreenHeight:   2340,
		SafeMargin:     100,
		TapDelay:       100 * time.Millisecond,
		ScrollDuration: 500 * time.Millisecond,
		SwipeDuration:  200 * time.Millisecond,
	}
}

// MixedStats counts the actions a mixed-interaction run produced. TotalEvents
// is an estimate: one event per tap, roughly 50 per scroll and 100 per fast
// swipe.
type MixedStats struct {
	Taps        int
	Scrolls     int
	Swipes      int
	TotalEvents int
}

// Per-gesture event estimates for throughput accounting.
const (
	eventsPerScroll = 50
	eventsPerSwipe  = 100
)

// InputGenerator produces synthetic touch input through a Runner. Events are
// injected at the framework level with the `input` command, which is slower
// than sendevent but stable across devices.
type InputGenerator struct {
	runner  Runner
	cfg     TouchConfig
	logger  *slog.Logger
	rand    *rand.Rand
	session string
}

// NewInputGenerator creates a generator. Every generator carries a session id
// in its log fields so interleaved runs can be told apart in collected logs.
func NewInputGenerator(runner Runner, cfg TouchConfig, logger *slog.Logger) *InputGenerator {
	session := uuid.NewString()
	return &InputGenerator{
		runner:  runner,
		cfg:     cfg,
		logger:  logger.With("session", session),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		session: session,
	}
}

// Session returns the generator's session id.
func (g *InputGenerator) Session() string { return g.session }

func (g *InputGenerator) randomPoint() (int, int) {
	x := g.cfg.SafeMargin + g.rand.Intn(g.cfg.ScreenWidth-2*g.cfg.SafeMargin)
	// Avoid the status bar at the top and the nav bar at the bottom.
	top := g.cfg.SafeMargin + 200
	bottom := g.cfg.ScreenHeight - g.cfg.SafeMargin - 200
	y := top + g.rand.Intn(bottom-top)
	return x, y
}

// Tap injects a single tap at the given coordinates.
func (g *InputGenerator) Tap(ctx context.Context, x, y int) error {
	_, err := g.runner.Shell(ctx, fmt.Sprintf("input tap %d %d", x, y))
	return err
}

// Swipe injects a swipe gesture.
func (g *InputGenerator) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	_, err := g.runner.Shell(ctx, fmt.Sprintf("input swipe %d %d %d %d %d", x1, y1, x2, y2, duration.Milliseconds()))
	return err
}

// SingleTap generates count taps at random safe points and returns how many
// were injected. A zero delay uses the configured tap delay.
func (g *InputGenerator) SingleTap(ctx context.Context, count int, delay time.Duration) (int, error) {
	if delay <= 0 {
		delay = g.cfg.TapDelay
	}

	for i := 0; i < count; i++ {
		x, y := g.randomPoint()
		if err := g.Tap(ctx, x, y); err != nil {
			return i, err
		}
		if i < count-1 {
			if err := sleep(ctx, delay); err != nil {
				return i + 1, err
			}
		}
		if (i+1)%10 == 0 {
			g.logger.InfoContext(ctx, "generated taps", "done", i+1, "total", count)
		}
	}
	return count, nil
}

// Scroll generates count vertical scroll gestures with alternating direction
// and returns the estimated number of input events produced.
func (g *InputGenerator) Scroll(ctx context.Context, count int) (int, error) {
	x := g.cfg.ScreenWidth / 2
	for i := 0; i < count; i++ {
		y1, y2 := 1500, 500 // scroll up
		if i%2 == 1 {
			y1, y2 = 500, 1500 // scroll down
		}
		if err := g.Swipe(ctx, x, y1, x, y2, g.cfg.ScrollDuration); err != nil {
			return i * eventsPerScroll, err
		}
		if err := sleep(ctx, 500*time.Millisecond); err != nil {
			return (i + 1) * eventsPerScroll, err
		}
		if (i+1)%5 == 0 {
			g.logger.InfoContext(ctx, "generated scrolls", "done", i+1, "total", count)
		}
	}
	return count * eventsPerScroll, nil
}

// FastSwipe generates count long fast swipes with alternating direction and
// returns the estimated number of input events produced.
func (g *InputGenerator) FastSwipe(ctx context.Context, count int) (int, error) {
	x := g.cfg.ScreenWidth / 2
	for i := 0; i < count; i++ {
		y1, y2 := 1800, 200
		if i%2 == 1 {
			y1, y2 = y2, y1
		}
		if err := g.Swipe(ctx, x, y1, x, y2, g.cfg.SwipeDuration); err != nil {
			return i * eventsPerSwipe, err
		}
		if err := sleep(ctx, 300*time.Millisecond); err != nil {
			return (i + 1) * eventsPerSwipe, err
		}
		if (i+1)%5 == 0 {
			g.logger.InfoContext(ctx, "generated fast swipes", "done", i+1, "total", count)
		}
	}
	return count * eventsPerSwipe, nil
}

// MixedInteraction generates a realistic interaction mix (taps weighted
// double against scrolls and swipes) for the given duration. Used for CPU
// and wakeup measurements where a steady event stream matters more than
// individual gesture timing.
func (g *InputGenerator) MixedInteraction(ctx context.Context, duration time.Duration) (MixedStats, error) {
	var stats MixedStats

	g.logger.InfoContext(ctx, "starting mixed interaction", "duration", duration)

	deadline := time.Now().Add(duration)
	for time.Until(deadline) > time.Second {
		switch g.rand.Intn(4) {
		case 0, 1: // tap
			x, y := g.randomPoint()
			if err := g.Tap(ctx, x, y); err != nil {
				return stats, err
			}
			stats.Taps++
			stats.TotalEvents++
			if err := sleep(ctx, 100*time.Millisecond); err != nil {
				return stats, err
			}
		case 2: // scroll
			x := g.cfg.ScreenWidth / 2
			y1, y2 := 1500, 500
			if g.rand.Intn(2) == 1 {
				y1, y2 = y2, y1
			}
			if err := g.Swipe(ctx, x, y1, x, y2, g.cfg.ScrollDuration); err != nil {
				return stats, err
			}
			stats.Scrolls++
			stats.TotalEvents += eventsPerScroll
			if err := sleep(ctx, 600*time.Millisecond); err != nil {
				return stats, err
			}
		case 3: // fast swipe
			x := g.cfg.ScreenWidth / 2
			y1, y2 := 1800, 200
			if g.rand.Intn(2) == 1 {
				y1, y2 = y2, y1
			}
			if err := g.Swipe(ctx, x, y1, x, y2, g.cfg.SwipeDuration); err != nil {
				return stats, err
			}
			stats.Swipes++
			stats.TotalEvents += eventsPerSwipe
			if err := sleep(ctx, 400*time.Millisecond); err != nil {
				return stats, err
			}
		}
	}

	g.logger.InfoContext(ctx, "mixed interaction done",
		"taps", stats.Taps, "scrolls", stats.Scrolls, "swipes", stats.Swipes,
		"total_events", stats.TotalEvents)
	return stats, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
