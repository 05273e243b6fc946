package task

import (
	"fmt"
	"io"
	"time"

	"basketminer/report"
	"basketminer/store"
	U "basketminer/util"
)

// PrintRun writes the hot items, every result of run and, when more than
// one engine ran, the differences between them.
func PrintRun(w io.Writer, run *store.Run, topItems U.PairList) error {
	for i, item := range topItems {
		if _, err := fmt.Fprintf(w, "%2d. %s (%d)\n", i+1, item.Key, item.Value); err != nil {
			return err
		}
	}
	if run.Stats != nil && len(run.Stats.ByWeekday) > 0 {
		if _, err := io.WriteString(w, "transactions by weekday\n"); err != nil {
			return err
		}
		for d := time.Sunday; d <= time.Saturday; d++ {
			count, ok := run.Stats.ByWeekday[d.String()]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %-10s %d\n", d, count); err != nil {
				return err
			}
		}
	}
	for _, res := range run.Results {
		if err := report.WriteText(w, res); err != nil {
			return err
		}
	}
	if len(run.Results) > 1 {
		return report.WriteDifferences(w, run.Differences)
	}
	return nil
}
