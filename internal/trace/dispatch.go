package trace

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// DispatchMeasurement is one input-dispatch latency sample: the delay between
// the kernel receiving a touch press and the InputDispatcher thread waking up
// in userspace. This is the epoll/ESM critical path.
type DispatchMeasurement struct {
	KernelTS  float64
	WakeupTS  float64
	LatencyMs float64
	Thread    string
}

var (
	dispatchInputLine = regexp.MustCompile(`\s*\S+-\d+\s+\[\d+\]\s+\S+\s+(\d+\.\d+):\s+input_event:\s+dev=(\S+)\s+type=(\d+)\s+code=(\d+)\s+value=(\d+)`)
	schedWakeupLine   = regexp.MustCompile(`\s*\S+-\d+\s+\[\d+\]\s+\S+\s+(\d+\.\d+):\s+sched_wakeup:\s+comm=(\S+)\s+pid=(\d+)`)
)

// BTN_TOUCH press: type=EV_KEY code=BTN_TOUCH value=1.
const (
	evKey    = 1
	btnTouch = 330
)

// ReadDispatchLatencies scans an ftrace stream carrying input_event and
// sched_wakeup events and returns one measurement per gesture: the time from
// the BTN_TOUCH press to the next InputDispatcher (or InputReader) wakeup.
// Latencies outside (0, 50) ms are discarded as unrelated wakeups.
func ReadDispatchLatencies(r io.Reader) ([]DispatchMeasurement, error) {
	type inputEvent struct {
		ts    float64
		typ   int
		code  int
		value int
	}
	type wakeup struct {
		ts   float64
		comm string
	}

	var inputs []inputEvent
	var wakeups []wakeup

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if m := dispatchInputLine.FindStringSubmatch(line); m != nil {
			ts, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			typ, _ := strconv.Atoi(m[3])
			code, _ := strconv.Atoi(m[4])
			value, _ := strconv.Atoi(m[5])
			inputs = append(inputs, inputEvent{ts: ts, typ: typ, code: code, value: value})
			continue
		}

		if m := schedWakeupLine.FindStringSubmatch(line); m != nil {
			comm := m[2]
			if !strings.Contains(comm, "InputDispatcher") && !strings.Contains(comm, "InputReader") {
				continue
			}
			ts, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			wakeups = append(wakeups, wakeup{ts: ts, comm: comm})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// A gesture starts at the BTN_TOUCH press.
	var gestureStarts []float64
	for _, in := range inputs {
		if in.typ == evKey && in.code == btnTouch && in.value == 1 {
			gestureStarts = append(gestureStarts, in.ts)
		}
	}

	var out []DispatchMeasurement
	for _, t1 := range gestureStarts {
		for _, wk := range wakeups {
			if wk.ts > t1 {
				ms := (wk.ts - t1) * 1000
				if ms > 0 && ms < 50 {
					out = append(out, DispatchMeasurement{
						KernelTS:  t1,
						WakeupTS:  wk.ts,
						LatencyMs: ms,
						Thread:    wk.comm,
					})
				}
				break
			}
		}
	}
	return out, nil
}

// ScenarioFromFilename infers the test scenario from a trace file name.
func ScenarioFromFilename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "tap"):
		return "single_tap"
	case strings.Contains(lower, "scroll"):
		return "scroll"
	case strings.Contains(lower, "swipe"):
		return "fast_swipe"
	}
	return "unknown"
}
