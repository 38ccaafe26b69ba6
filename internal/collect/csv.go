package collect

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCPUCSV writes cpu samples in the cpu.csv layout the analysis config
// expects: sample,system_server_cpu,total_cpu.
func WriteCPUCSV(w io.Writer, samples []CPUSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sample", "system_server_cpu", "total_cpu"}); err != nil {
		return err
	}
	for i, s := range samples {
		rec := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.1f", s.SystemServerPct),
			fmt.Sprintf("%.1f", s.TotalPct),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWakeupsCSV writes wakeup samples in the wakeups.csv layout:
// sample,wakeups_per_sec.
func WriteWakeupsCSV(w io.Writer, samples []WakeupSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sample", "wakeups_per_sec"}); err != nil {
		return err
	}
	for i, s := range samples {
		rec := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", s.PerSecond),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
