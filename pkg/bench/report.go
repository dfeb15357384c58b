package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

// WriteReport prints one latency table for all scenario results
func WriteReport(w io.Writer, runID string, results []Result) error {
	cyan := color.New(color.FgCyan).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()

	fmt.Fprintf(w, "%s\n", cyan("=== ORDER BOOK LATENCY BENCHMARK (run %s) ===", runID))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tOPS\tMEDIAN\tMEAN\tP99\tMAX\tTHROUGHPUT")

	for _, res := range results {
		median := time.Duration(res.Hist.ValueAtQuantile(50))
		p99 := time.Duration(res.Hist.ValueAtQuantile(99))
		max := time.Duration(res.Hist.Max())
		mean := time.Duration(int64(res.Hist.Mean()))

		throughput := "-"
		if res.Elapsed > 0 {
			throughput = fmt.Sprintf("%.0f ops/s", float64(res.Ops)/res.Elapsed.Seconds())
		}

		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\t%v\t%s\n",
			green("%s", res.Name), res.Ops, median, mean, p99, max, throughput)
	}

	return tw.Flush()
}
