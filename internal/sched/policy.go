package sched

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownPolicy  = errors.New("unknown queue policy")
	ErrInvalidQuantum = errors.New("round-robin quantum must be positive")
)

// PolicyKind tags the dispatch discipline of one level.
type PolicyKind int

const (
	KindRoundRobin PolicyKind = iota
	KindSJF
	KindSTCF
)

func (k PolicyKind) String() string {
	switch k {
	case KindRoundRobin:
		return "RR"
	case KindSJF:
		return "SJF"
	case KindSTCF:
		return "STCF"
	default:
		return "Unknown"
	}
}

// ParsePolicyKind accepts the short and long policy names, case-insensitively.
func ParsePolicyKind(name string) (PolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rr", "round-robin", "roundrobin":
		return KindRoundRobin, nil
	case "sjf", "shortest-job-first":
		return KindSJF, nil
	case "stcf", "shortest-time-to-completion-first":
		return KindSTCF, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
	}
}

// Policy is one priority level: the processes ready at that level and the
// rule choosing which of them runs next. The set of implementations is closed.
type Policy interface {
	Kind() PolicyKind
	Quantum() int

	// Admit inserts a newly ready process.
	Admit(p Process)
	// Next returns the process this level would dispatch now, without removing it.
	// ok is false when the level is empty.
	Next(now int) (p Process, ok bool)
	// Evict removes the first resident with the given label.
	Evict(label string) bool
	// Replace overwrites the resident sharing p's label, keeping its position.
	Replace(p Process) bool

	Len() int
	Empty() bool
	Residents() []Process

	sealed()
}

// NewPolicy builds a level of the given kind. quantum is only read for Round-Robin.
func NewPolicy(kind PolicyKind, quantum int) (Policy, error) {
	switch kind {
	case KindRoundRobin:
		if quantum <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantum, quantum)
		}
		return NewRoundRobin(quantum), nil
	case KindSJF:
		return NewShortestJobFirst(), nil
	case KindSTCF:
		return NewShortestTimeToCompletion(), nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownPolicy, int(kind))
	}
}

// readySet holds the residents of one level in dispatch order.
type readySet struct {
	procs []Process
}

func (s *readySet) Len() int    { return len(s.procs) }
func (s *readySet) Empty() bool { return len(s.procs) == 0 }

func (s *readySet) Residents() []Process {
	out := make([]Process, len(s.procs))
	copy(out, s.procs)
	return out
}

func (s *readySet) indexOf(label string) int {
	for i := range s.procs {
		if s.procs[i].Label == label {
			return i
		}
	}
	return -1
}

// remove deletes the first match and returns its former index, or -1.
func (s *readySet) remove(label string) int {
	i := s.indexOf(label)
	if i < 0 {
		return -1
	}
	s.procs = append(s.procs[:i], s.procs[i+1:]...)
	return i
}

func (s *readySet) Replace(p Process) bool {
	i := s.indexOf(p.Label)
	if i < 0 {
		return false
	}
	s.procs[i] = p
	return true
}

// sortByRemaining orders residents by remaining time. Ties keep insertion order.
func (s *readySet) sortByRemaining() {
	sort.SliceStable(s.procs, func(i, j int) bool {
		return s.procs[i].RemainingTime < s.procs[j].RemainingTime
	})
}

func (s *readySet) sealed() {}

// RoundRobin rotates through its residents, granting each up to Quantum units per dispatch.
type RoundRobin struct {
	readySet
	quantum int
	cursor  int
}

func NewRoundRobin(quantum int) *RoundRobin {
	return &RoundRobin{quantum: quantum}
}

func (r *RoundRobin) Kind() PolicyKind { return KindRoundRobin }
func (r *RoundRobin) Quantum() int     { return r.quantum }

func (r *RoundRobin) Admit(p Process) {
	r.procs = append(r.procs, p)
}

// Next returns the resident under the cursor and advances the cursor, so
// repeated calls cycle through every resident.
func (r *RoundRobin) Next(_ int) (Process, bool) {
	if r.Empty() {
		return Process{}, false
	}
	if r.cursor >= len(r.procs) {
		r.cursor = 0
	}
	p := r.procs[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.procs)
	return p, true
}

// Evict removes the resident and only wraps the cursor when it fell off the end.
// Residents after the removed one shift down under a cursor that stays put, so
// the rotation can skip a neighbour; reported schedules depend on that order.
func (r *RoundRobin) Evict(label string) bool {
	if r.remove(label) < 0 {
		return false
	}
	if r.cursor >= len(r.procs) {
		r.cursor = 0
	}
	return true
}

// ShortestJobFirst orders residents by remaining time at admission only.
// Dispatch never reorders, so the running job is not displaced by its own level.
type ShortestJobFirst struct {
	readySet
}

func NewShortestJobFirst() *ShortestJobFirst { return &ShortestJobFirst{} }

func (s *ShortestJobFirst) Kind() PolicyKind { return KindSJF }
func (s *ShortestJobFirst) Quantum() int     { return 0 }

func (s *ShortestJobFirst) Admit(p Process) {
	s.procs = append(s.procs, p)
	s.sortByRemaining()
}

func (s *ShortestJobFirst) Next(_ int) (Process, bool) {
	if s.Empty() {
		return Process{}, false
	}
	return s.procs[0], true
}

func (s *ShortestJobFirst) Evict(label string) bool {
	return s.remove(label) >= 0
}

// ShortestTimeToCompletion re-sorts on every Next, which is what makes it preemptive:
// a shorter job that joined since the last decision wins the next one.
type ShortestTimeToCompletion struct {
	readySet
}

func NewShortestTimeToCompletion() *ShortestTimeToCompletion { return &ShortestTimeToCompletion{} }

func (s *ShortestTimeToCompletion) Kind() PolicyKind { return KindSTCF }
func (s *ShortestTimeToCompletion) Quantum() int     { return 0 }

func (s *ShortestTimeToCompletion) Admit(p Process) {
	s.procs = append(s.procs, p)
	s.sortByRemaining()
}

func (s *ShortestTimeToCompletion) Next(_ int) (Process, bool) {
	if s.Empty() {
		return Process{}, false
	}
	s.sortByRemaining()
	return s.procs[0], true
}

func (s *ShortestTimeToCompletion) Evict(label string) bool {
	return s.remove(label) >= 0
}
