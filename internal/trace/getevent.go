package trace

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// InputEvent is one decoded `getevent -lt` line.
type InputEvent struct {
	Timestamp float64 // seconds
	Device    string  // /dev/input/eventN
	TypeCode  string  // "0003:0039"
	Value     string
}

// [    1234.567890] /dev/input/event2: 0003 0039 00000001
var geteventLine = regexp.MustCompile(`^\[\s*(\d+\.\d+)\]\s+(/dev/input/event\d+):\s+([0-9a-fA-F]+)\s+([0-9a-fA-F]+)\s+([0-9a-fA-F]+)`)

// ParseGeteventLine decodes one getevent -lt line, reporting ok=false for
// anything else (getevent interleaves device banners with event lines).
func ParseGeteventLine(line string) (InputEvent, bool) {
	m := geteventLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return InputEvent{}, false
	}
	ts, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return InputEvent{}, false
	}
	return InputEvent{
		Timestamp: ts,
		Device:    m[2],
		TypeCode:  m[3] + ":" + m[4],
		Value:     m[5],
	}, true
}

// ReadGetevent decodes every event line from a getevent -lt capture.
func ReadGetevent(r io.Reader) ([]InputEvent, error) {
	var events []InputEvent
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if ev, ok := ParseGeteventLine(sc.Text()); ok {
			events = append(events, ev)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GestureSpread is the first-to-last event time spread in milliseconds, the
// time a gesture took from first touch to last emitted event. Fewer than two
// events or a spread outside (0, 10000) ms report ok=false.
func GestureSpread(events []InputEvent) (float64, bool) {
	if len(events) < 2 {
		return 0, false
	}
	first, last := events[0].Timestamp, events[0].Timestamp
	for _, e := range events[1:] {
		if e.Timestamp < first {
			first = e.Timestamp
		}
		if e.Timestamp > last {
			last = e.Timestamp
		}
	}
	ms := (last - first) * 1000
	if ms < 0 || ms > 10000 {
		return 0, false
	}
	return ms, true
}

// EventStats summarizes a getevent capture for diagnostic output.
type EventStats struct {
	Count      int
	FirstTS    float64
	LastTS     float64
	DurationMs float64
	TypeCounts map[string]int

	AvgInterEventMs float64
	MinInterEventMs float64
	MaxInterEventMs float64
	P50InterEventMs float64
	P95InterEventMs float64
}

// Stats computes diagnostic statistics over a capture, including inter-event
// timing quantiles.
func Stats(events []InputEvent) EventStats {
	s := EventStats{Count: len(events), TypeCounts: make(map[string]int)}
	if len(events) == 0 {
		return s
	}

	timestamps := make([]float64, 0, len(events))
	for _, e := range events {
		timestamps = append(timestamps, e.Timestamp)
		s.TypeCounts[e.TypeCode]++
	}
	sort.Float64s(timestamps)

	s.FirstTS = timestamps[0]
	s.LastTS = timestamps[len(timestamps)-1]
	s.DurationMs = (s.LastTS - s.FirstTS) * 1000

	if len(timestamps) < 2 {
		return s
	}

	deltas := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		deltas = append(deltas, (timestamps[i]-timestamps[i-1])*1000)
	}

	s.AvgInterEventMs = stat.Mean(deltas, nil)
	s.MinInterEventMs = deltas[0]
	s.MaxInterEventMs = deltas[0]
	for _, d := range deltas[1:] {
		if d < s.MinInterEventMs {
			s.MinInterEventMs = d
		}
		if d > s.MaxInterEventMs {
			s.MaxInterEventMs = d
		}
	}

	sorted := make([]float64, len(deltas))
	copy(sorted, deltas)
	sort.Float64s(sorted)
	s.P50InterEventMs = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P95InterEventMs = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	return s
}
