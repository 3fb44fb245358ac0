package sched

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLabel       = errors.New("process label is empty")
	ErrDuplicateLabel   = errors.New("process label already admitted")
	ErrInvalidBurst     = errors.New("process burst time must be positive")
	ErrInvalidArrival   = errors.New("process arrival time must not be negative")
	ErrAlreadyCompleted = errors.New("process already completed")
)

// Process is the state of one simulated process.
// Label is the only identity the engine uses; it must be unique per simulation.
type Process struct {
	Label       string
	BurstTime   int // total CPU units required
	ArrivalTime int
	QueueLevel  int // 1-based level entered on arrival
	Priority    int // informational, never consulted by a policy

	RemainingTime  int
	HasStarted     bool
	ResponseTime   int
	CompletionTime int
	WaitingTime    int
	TurnaroundTime int

	completed bool
}

// NewProcess creates a process with its full burst still remaining.
func NewProcess(label string, burst, arrival, level, priority int) Process {
	return Process{
		Label:         label,
		BurstTime:     burst,
		ArrivalTime:   arrival,
		QueueLevel:    level,
		Priority:      priority,
		RemainingTime: burst,
	}
}

// Validate reports whether the process can be simulated without corrupting metrics.
func (p Process) Validate() error {
	switch {
	case p.Label == "":
		return ErrEmptyLabel
	case p.BurstTime <= 0:
		return fmt.Errorf("%w: %s has burst %d", ErrInvalidBurst, p.Label, p.BurstTime)
	case p.ArrivalTime < 0:
		return fmt.Errorf("%w: %s arrives at %d", ErrInvalidArrival, p.Label, p.ArrivalTime)
	}
	return nil
}

// Start stamps the response time on first dispatch. Later calls are no-ops.
func (p *Process) Start(now int) {
	if p.HasStarted {
		return
	}
	p.HasStarted = true
	p.ResponseTime = now - p.ArrivalTime
}

// Complete fixes completion, turnaround and waiting time. It may be called once.
func (p *Process) Complete(now int) error {
	if p.completed {
		return fmt.Errorf("%w: %s", ErrAlreadyCompleted, p.Label)
	}
	p.completed = true
	p.CompletionTime = now
	p.TurnaroundTime = p.CompletionTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
	return nil
}

// Completed reports whether Complete has been called.
func (p Process) Completed() bool { return p.completed }

func (p Process) String() string {
	return fmt.Sprintf("%s(bt=%d at=%d q=%d rem=%d)", p.Label, p.BurstTime, p.ArrivalTime, p.QueueLevel, p.RemainingTime)
}
