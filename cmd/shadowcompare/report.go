package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

func printReport(out io.Writer, results []comparison, verbose bool) {
	fmt.Fprintln(out, "Shadow Compare Report")

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Result", "Method", "Path", "Go", "Legacy", "Critical"})
	table.SetAutoWrapText(false)
	for _, res := range results {
		table.Append([]string{
			resultLabel(res),
			res.Target.Method,
			res.Target.Path,
			fmt.Sprintf("%d (%s)", res.GoStatus, res.DurationGo.Round(time.Millisecond)),
			fmt.Sprintf("%d (%s)", res.LegacyStatus, res.DurationLegacy.Round(time.Millisecond)),
			strconv.FormatBool(res.Target.Critical),
		})
	}
	table.Render()

	for _, res := range results {
		if res.Error != nil {
			fmt.Fprintf(out, "%s %s: %v\n", res.Target.Method, res.Target.Path, res.Error)
			continue
		}
		if verbose && res.Diff != "" {
			fmt.Fprintf(out, "%s %s (-legacy +go):\n%s\n", res.Target.Method, res.Target.Path, res.Diff)
		}
	}
}

func resultLabel(res comparison) string {
	switch {
	case res.Error != nil:
		return "ERROR"
	case !res.StatusMatch:
		return "STATUS"
	case !res.BodyMatch:
		return "DIFF"
	default:
		return "OK"
	}
}
