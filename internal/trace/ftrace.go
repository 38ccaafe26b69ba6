// Package trace parses the kernel and input-subsystem text logs collected on
// the device into latency samples. Three formats are supported: raw ftrace
// (IRQ-to-input-event latency), ftrace dispatch latency (input_event to
// InputDispatcher wakeup) and getevent -lt output (gesture time spread).
package trace

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Event is a single decoded ftrace line.
type Event struct {
	Timestamp float64 // seconds
	CPU       int
	Task      string
	PID       int
	Type      string // irq_handler_entry, input_event, ...
	Details   string
}

// task-pid [cpu] flags timestamp: event: details
var ftraceLine = regexp.MustCompile(`^\s*(.+?)-(\d+)\s+\[(\d+)\]\s+[\w.]+\s+([\d.]+):\s+(\w+):\s*(.*)$`)

// ParseFtraceLine decodes one ftrace line. Comment lines, blank lines and
// anything that does not match the trace format report ok=false.
func ParseFtraceLine(line string) (Event, bool) {
	if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
		return Event{}, false
	}
	m := ftraceLine.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}

	pid, err := strconv.Atoi(m[2])
	if err != nil {
		return Event{}, false
	}
	cpu, err := strconv.Atoi(m[3])
	if err != nil {
		return Event{}, false
	}
	ts, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return Event{}, false
	}

	return Event{
		Task:      strings.TrimSpace(m[1]),
		PID:       pid,
		CPU:       cpu,
		Timestamp: ts,
		Type:      m[5],
		Details:   m[6],
	}, true
}

// Known touchscreen controller name fragments.
var touchControllers = []string{"fts", "touch", "sec_ts", "synaptics", "goodix", "atmel", "nt36"}

// IsTouchIRQ reports whether the event is a touchscreen interrupt entry.
func (e Event) IsTouchIRQ() bool {
	if e.Type != "irq_handler_entry" {
		return false
	}
	details := strings.ToLower(e.Details)
	for _, name := range touchControllers {
		if strings.Contains(details, name) {
			return true
		}
	}
	return false
}

// IsInputEvent reports whether the event is an input_event trace point.
func (e Event) IsInputEvent() bool { return e.Type == "input_event" }

// IsESMEvent reports whether the event belongs to the ESM trace points.
func (e Event) IsESMEvent() bool { return strings.Contains(strings.ToLower(e.Type), "esm") }

// ReadFtrace decodes every parseable event from an ftrace text stream.
func ReadFtrace(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if ev, ok := ParseFtraceLine(sc.Text()); ok {
			events = append(events, ev)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// PerEventLatencies pairs each touch IRQ with the first input event that
// follows it and returns the individual latencies in milliseconds. Pairs
// outside (0, 100) ms are discarded as mismatches.
func PerEventLatencies(events []Event) []float64 {
	irqs := filterSorted(events, Event.IsTouchIRQ)
	inputs := filterSorted(events, Event.IsInputEvent)

	var latencies []float64
	inputIdx := 0
	for _, irq := range irqs {
		for inputIdx < len(inputs) {
			in := inputs[inputIdx]
			if in.Timestamp > irq.Timestamp {
				ms := (in.Timestamp - irq.Timestamp) * 1000
				if ms > 0 && ms < 100 {
					latencies = append(latencies, ms)
				}
				break
			}
			inputIdx++
		}
	}
	return latencies
}

// SingleLatency is the first-IRQ to last-input-event latency of a single
// touch, in milliseconds. Values outside (0, 1000) ms report ok=false.
func SingleLatency(events []Event) (float64, bool) {
	return spanLatency(events, 1000)
}

// AggregateLatency is the first-IRQ to last-input-event latency across a
// whole multi-event gesture trace (scrolls, swipes). Gestures may take
// seconds, so values up to 10 s are accepted.
func AggregateLatency(events []Event) (float64, bool) {
	return spanLatency(events, 10000)
}

func spanLatency(events []Event, maxMs float64) (float64, bool) {
	irqs := filterSorted(events, Event.IsTouchIRQ)
	inputs := filterSorted(events, Event.IsInputEvent)
	if len(irqs) == 0 || len(inputs) == 0 {
		return 0, false
	}

	firstIRQ := irqs[0]
	lastInput := inputs[len(inputs)-1]
	ms := (lastInput.Timestamp - firstIRQ.Timestamp) * 1000
	if ms < 0 || ms > maxMs {
		return 0, false
	}
	return ms, true
}

func filterSorted(events []Event, keep func(Event) bool) []Event {
	var out []Event
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}
