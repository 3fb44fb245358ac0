// Package trace records engine events and derives the CPU timeline from them.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"mlfqsim/internal/sched"
)

// Slice is a contiguous span of CPU time given to one process.
// An empty Label marks idle time.
type Slice struct {
	Label string
	Start int
	Stop  int
}

// Len returns the number of units covered by the slice.
func (s Slice) Len() int { return s.Stop - s.Start }

// Recorder is a sched.Observer that keeps every event it sees.
type Recorder struct {
	events []sched.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{events: make([]sched.Event, 0)}
}

// Observe implements sched.Observer.
func (r *Recorder) Observe(ev sched.Event) {
	r.events = append(r.events, ev)
}

// Events returns the recorded events in emission order.
func (r *Recorder) Events() []sched.Event {
	out := make([]sched.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Slices merges consecutive executed or idle units into timeline slices.
func (r *Recorder) Slices() []Slice {
	var out []Slice
	for _, ev := range r.events {
		var label string
		switch ev.Kind {
		case sched.EventExecute:
			label = ev.Label
		case sched.EventIdle:
			label = ""
		default:
			continue
		}
		if n := len(out); n > 0 && out[n-1].Label == label && out[n-1].Stop == ev.Clock {
			out[n-1].Stop++
			continue
		}
		out = append(out, Slice{Label: label, Start: ev.Clock, Stop: ev.Clock + 1})
	}
	return out
}

// WriteCSV writes one row per event with a header row.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tick", "event", "label", "level", "remaining"}); err != nil {
		return err
	}
	for _, ev := range r.events {
		level := ""
		if ev.Level >= 0 {
			level = strconv.Itoa(ev.Level + 1)
		}
		rec := []string{
			strconv.Itoa(ev.Clock),
			ev.Kind.String(),
			ev.Label,
			level,
			strconv.Itoa(ev.Remaining),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing event log: %w", err)
	}
	return nil
}
