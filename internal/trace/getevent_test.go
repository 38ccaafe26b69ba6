package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geteventSample = `add device 1: /dev/input/event2
  name:     "fts_ts"
[    1234.500000] /dev/input/event2: 0003 0039 00000001
[    1234.510000] /dev/input/event2: 0003 0035 0000021c
[    1234.510000] /dev/input/event2: 0003 0036 00000490
[    1234.600000] /dev/input/event2: 0003 0039 ffffffff
[    1234.600000] /dev/input/event2: 0000 0000 00000000
`

func TestParseGeteventLine(t *testing.T) {
	ev, ok := ParseGeteventLine("[    1234.567890] /dev/input/event2: 0003 0039 00000001")
	require.True(t, ok)

	assert.InDelta(t, 1234.567890, ev.Timestamp, 1e-9)
	assert.Equal(t, "/dev/input/event2", ev.Device)
	assert.Equal(t, "0003:0039", ev.TypeCode)
	assert.Equal(t, "00000001", ev.Value)
}

func TestParseGeteventLineRejectsBanners(t *testing.T) {
	for _, line := range []string{
		"add device 1: /dev/input/event2",
		`  name:     "fts_ts"`,
		"",
		"could not get driver version",
	} {
		_, ok := ParseGeteventLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestReadGetevent(t *testing.T) {
	events, err := ReadGetevent(strings.NewReader(geteventSample))
	require.NoError(t, err)
	require.Len(t, events, 5)

	assert.Equal(t, "0003:0039", events[0].TypeCode)
	assert.Equal(t, "0000:0000", events[4].TypeCode)
}

func TestGestureSpread(t *testing.T) {
	events, err := ReadGetevent(strings.NewReader(geteventSample))
	require.NoError(t, err)

	ms, ok := GestureSpread(events)
	require.True(t, ok)
	assert.InDelta(t, 100.0, ms, 1e-6)
}

func TestGestureSpreadDegenerate(t *testing.T) {
	_, ok := GestureSpread(nil)
	assert.False(t, ok)

	_, ok = GestureSpread([]InputEvent{{Timestamp: 1}})
	assert.False(t, ok)

	// A spread beyond 10 s is a capture artifact, not a gesture.
	_, ok = GestureSpread([]InputEvent{{Timestamp: 0}, {Timestamp: 20}})
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	events, err := ReadGetevent(strings.NewReader(geteventSample))
	require.NoError(t, err)

	s := Stats(events)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 1234.5, s.FirstTS, 1e-9)
	assert.InDelta(t, 1234.6, s.LastTS, 1e-9)
	assert.InDelta(t, 100.0, s.DurationMs, 1e-6)
	assert.Equal(t, 2, s.TypeCounts["0003:0039"])
	assert.Equal(t, 1, s.TypeCounts["0000:0000"])

	// Inter-event deltas: 10, 0, 90, 0 ms.
	assert.InDelta(t, 25.0, s.AvgInterEventMs, 1e-6)
	assert.InDelta(t, 0.0, s.MinInterEventMs, 1e-6)
	assert.InDelta(t, 90.0, s.MaxInterEventMs, 1e-6)
}

func TestStatsEmpty(t *testing.T) {
	s := Stats(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.DurationMs)
}
