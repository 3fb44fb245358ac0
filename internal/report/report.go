// Package report renders simulation results for the console.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"mlfqsim/internal/procfile"
	"mlfqsim/internal/sched"
	"mlfqsim/internal/trace"
)

// Title prints a framed title line.
func Title(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// Results prints the finished ledger as a table with a footer of averages.
func Results(w io.Writer, finished []sched.Process) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Label", "BT", "AT", "Q", "Pr", "WT", "CT", "RT", "TAT"})
	table.SetAutoFormatHeaders(false)

	rows := make([][]string, 0, len(finished))
	for _, p := range finished {
		rows = append(rows, []string{
			p.Label,
			strconv.Itoa(p.BurstTime),
			strconv.Itoa(p.ArrivalTime),
			strconv.Itoa(p.QueueLevel),
			strconv.Itoa(p.Priority),
			strconv.Itoa(p.WaitingTime),
			strconv.Itoa(p.CompletionTime),
			strconv.Itoa(p.ResponseTime),
			strconv.Itoa(p.TurnaroundTime),
		})
	}
	table.AppendBulk(rows)

	if avg, ok := procfile.Average(finished); ok {
		table.SetFooter([]string{"", "", "", "", "Average",
			fmt.Sprintf("%.2f", avg.Waiting),
			fmt.Sprintf("%.2f", avg.Completion),
			fmt.Sprintf("%.2f", avg.Response),
			fmt.Sprintf("%.2f", avg.Turnaround),
		})
	}
	table.Render()
}

// Gantt prints the CPU timeline, one cell per slice followed by the slice boundaries.
func Gantt(w io.Writer, slices []trace.Slice) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	if len(slices) == 0 {
		_, _ = fmt.Fprintln(w, "(empty)")
		return
	}
	_, _ = fmt.Fprint(w, "|")
	for _, s := range slices {
		label := s.Label
		if label == "" {
			label = "idle"
		}
		padding := strings.Repeat(" ", max(0, (8-len(label))/2))
		_, _ = fmt.Fprint(w, padding, label, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i, s := range slices {
		_, _ = fmt.Fprint(w, s.Start, "\t")
		if i == len(slices)-1 {
			_, _ = fmt.Fprint(w, s.Stop)
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

// Schemes prints the built-in level layouts.
func Schemes(w io.Writer, schemes []sched.Scheme, selected int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Levels", "Default"})
	table.SetAutoFormatHeaders(false)
	for _, s := range schemes {
		mark := ""
		if s.ID == selected {
			mark = "*"
		}
		table.Append([]string{strconv.Itoa(s.ID), s.String(), mark})
	}
	table.Render()
}

// Summary prints run-wide counters below the table.
func Summary(w io.Writer, clock, busy, idle int) {
	util := 0.0
	if clock > 0 {
		util = float64(busy) / float64(clock) * 100
	}
	_, _ = fmt.Fprintf(w, "Simulation finished at t=%d (busy %d, idle %d, utilization %.1f%%)\n", clock, busy, idle, util)
}
