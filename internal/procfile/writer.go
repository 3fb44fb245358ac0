package procfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"mlfqsim/internal/sched"
)

// resultHeader matches existing result files byte for byte.
const resultHeader = "# etiqueta; BT; AT; Q; Pr; WT; CT; RT; TAT"

// Averages holds the mean metrics over a set of finished processes.
type Averages struct {
	Waiting    float64
	Completion float64
	Response   float64
	Turnaround float64
}

// Average computes the mean metrics. ok is false for an empty ledger.
func Average(finished []sched.Process) (avg Averages, ok bool) {
	if len(finished) == 0 {
		return Averages{}, false
	}
	for _, p := range finished {
		avg.Waiting += float64(p.WaitingTime)
		avg.Completion += float64(p.CompletionTime)
		avg.Response += float64(p.ResponseTime)
		avg.Turnaround += float64(p.TurnaroundTime)
	}
	n := float64(len(finished))
	avg.Waiting /= n
	avg.Completion /= n
	avg.Response /= n
	avg.Turnaround /= n
	return avg, true
}

// WriteFile creates path and writes the results to it.
func WriteFile(path string, finished []sched.Process) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating result file: %w", err)
	}
	if err := Write(f, finished); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write emits the header, one line per finished process in ledger order and,
// unless the ledger is empty, a line of one-decimal averages.
func Write(w io.Writer, finished []sched.Process) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, resultHeader)
	for _, p := range finished {
		fmt.Fprintf(bw, "%s;%d;%d;%d;%d;%d;%d;%d;%d\n",
			p.Label, p.BurstTime, p.ArrivalTime, p.QueueLevel, p.Priority,
			p.WaitingTime, p.CompletionTime, p.ResponseTime, p.TurnaroundTime)
	}
	if avg, ok := Average(finished); ok {
		fmt.Fprintf(bw, "WT=%.1f; CT=%.1f; RT=%.1f; TAT=%.1f;\n",
			avg.Waiting, avg.Completion, avg.Response, avg.Turnaround)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
