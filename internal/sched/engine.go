// internal/sched/engine.go

package sched

import (
	"fmt"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/sirupsen/logrus"
)

// Engine replays a multilevel feedback queue one simulated unit at a time.
// Level 0 has the highest priority. The running process stays resident in its
// level; its updated state is written back with Replace after every decision.
type Engine struct {
	levels    []Policy
	backlog   *redblacktree.Tree  // not yet arrived, ordered by arrival time then admission order
	labels    map[string]struct{} // every label ever admitted
	finished  []Process
	clock     Clock
	seq       uint64
	observers []Observer

	running      Process
	hasRunning   bool
	runningLevel int
	quantumUsed  int // units consumed in the current Round-Robin dispatch
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver subscribes o to every engine event.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// New creates an engine over the given levels, highest priority first.
func New(levels []Policy, opts ...Option) (*Engine, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	for i, l := range levels {
		if l == nil {
			return nil, fmt.Errorf("level %d is nil", i)
		}
	}
	e := &Engine{
		levels:       levels,
		backlog:      redblacktree.NewWith(cmpArrival),
		labels:       make(map[string]struct{}),
		runningLevel: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// AdmitNew places a process in the arrival backlog. Only the static attributes
// of p are used; simulation state starts fresh.
func (e *Engine) AdmitNew(p Process) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, dup := e.labels[p.Label]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, p.Label)
	}
	e.labels[p.Label] = struct{}{}

	fresh := NewProcess(p.Label, p.BurstTime, p.ArrivalTime, p.QueueLevel, p.Priority)
	e.backlog.Put(arrivalKey{arrival: fresh.ArrivalTime, seq: e.seq}, fresh)
	e.seq++
	return nil
}

// Run executes the simulation until every admitted process has finished.
func (e *Engine) Run() {
	logrus.Debugf("engine: starting with %d levels, %d processes in backlog", len(e.levels), e.backlog.Size())

	for e.workLeft() {
		// 1) arrivals
		e.admitArrivals()

		// 2) a ready process in a higher level takes the CPU
		e.preemptForHigherLevel()

		// 3) STCF re-evaluates inside the running level
		e.reevaluateShortest()

		// 4) dispatch
		if !e.hasRunning {
			e.dispatch()
		}

		// 5) idle case: nothing ready yet
		if !e.hasRunning {
			e.emit(Event{Clock: e.clock.Now(), Kind: EventIdle, Level: -1})
			e.clock.Idle()
			continue
		}

		// 6) run exactly one unit, then re-evaluate
		e.execute()
	}

	logrus.Debugf("engine: finished at t=%d (busy=%d idle=%d)", e.clock.Now(), e.clock.BusyTicks(), e.clock.IdleTicks())
}

// Clock returns the current simulated time.
func (e *Engine) Clock() int { return e.clock.Now() }

// Finished returns a snapshot of the finished ledger in completion order.
func (e *Engine) Finished() []Process {
	out := make([]Process, len(e.finished))
	copy(out, e.finished)
	return out
}

// Executed returns the number of units spent running processes.
func (e *Engine) Executed() int { return e.clock.BusyTicks() }

// IdleTicks returns the number of units the CPU spent idle.
func (e *Engine) IdleTicks() int { return e.clock.IdleTicks() }

// Pending returns how many admitted processes have not finished yet.
func (e *Engine) Pending() int {
	n := e.backlog.Size()
	for _, l := range e.levels {
		n += l.Len()
	}
	return n
}

// Levels returns the number of priority levels.
func (e *Engine) Levels() int { return len(e.levels) }

func (e *Engine) workLeft() bool {
	if !e.backlog.Empty() {
		return true
	}
	for _, l := range e.levels {
		if !l.Empty() {
			return true
		}
	}
	return false
}

// levelFor maps a 1-based queue level to a level index, clamping unknown levels to 0.
func (e *Engine) levelFor(queueLevel int) int {
	idx := queueLevel - 1
	if idx < 0 || idx >= len(e.levels) {
		return 0
	}
	return idx
}

func (e *Engine) admitArrivals() {
	now := e.clock.Now()
	for {
		node := e.backlog.Left()
		if node == nil {
			return
		}
		key := node.Key.(arrivalKey)
		if key.arrival > now {
			return
		}
		p := node.Value.(Process)
		e.backlog.Remove(key)

		idx := e.levelFor(p.QueueLevel)
		e.levels[idx].Admit(p)
		e.emit(Event{Clock: now, Kind: EventArrive, Label: p.Label, Level: idx, Remaining: p.RemainingTime})
	}
}

func (e *Engine) preemptForHigherLevel() {
	if !e.hasRunning {
		return
	}
	for i := 0; i < e.runningLevel; i++ {
		if e.levels[i].Empty() {
			continue
		}
		// back to its own level unchanged, no demotion
		e.persist(e.running)
		e.emit(Event{Clock: e.clock.Now(), Kind: EventPreempt, Label: e.running.Label, Level: e.runningLevel, Remaining: e.running.RemainingTime})
		e.clearRunning()
		return
	}
}

func (e *Engine) reevaluateShortest() {
	if !e.hasRunning {
		return
	}
	level := e.levels[e.runningLevel]
	if level.Kind() != KindSTCF {
		return
	}
	candidate, ok := level.Next(e.clock.Now())
	if !ok || candidate.Label == e.running.Label {
		return
	}

	e.persist(e.running)
	e.emit(Event{Clock: e.clock.Now(), Kind: EventSwap, Label: e.running.Label, Level: e.runningLevel, Remaining: e.running.RemainingTime})

	e.running = candidate
	e.quantumUsed = 0
	e.markStarted()
	e.emit(Event{Clock: e.clock.Now(), Kind: EventDispatch, Label: e.running.Label, Level: e.runningLevel, Remaining: e.running.RemainingTime})
}

func (e *Engine) dispatch() {
	now := e.clock.Now()
	for i, level := range e.levels {
		p, ok := level.Next(now)
		if !ok {
			continue
		}
		e.running = p
		e.runningLevel = i
		e.hasRunning = true
		e.quantumUsed = 0
		e.markStarted()
		e.emit(Event{Clock: now, Kind: EventDispatch, Label: p.Label, Level: i, Remaining: p.RemainingTime})
		return
	}
}

func (e *Engine) execute() {
	level := e.levels[e.runningLevel]
	start := e.clock.Now()

	e.running.RemainingTime--
	e.clock.Tick()
	if level.Kind() == KindRoundRobin {
		e.quantumUsed++
	}
	e.emit(Event{Clock: start, Kind: EventExecute, Label: e.running.Label, Level: e.runningLevel, Remaining: e.running.RemainingTime})

	// finished?
	if e.running.RemainingTime == 0 {
		if err := e.running.Complete(e.clock.Now()); err != nil {
			panic(fmt.Sprintf("engine: %v", err))
		}
		e.finished = append(e.finished, e.running)
		if !level.Evict(e.running.Label) {
			panic(fmt.Sprintf("engine: finished process %s missing from level %d", e.running.Label, e.runningLevel))
		}
		e.emit(Event{Clock: e.clock.Now(), Kind: EventFinish, Label: e.running.Label, Level: e.runningLevel})
		e.clearRunning()
		return
	}

	// quantum spent: rotate inside the same level
	if level.Kind() == KindRoundRobin && e.quantumUsed == level.Quantum() {
		if !level.Evict(e.running.Label) {
			panic(fmt.Sprintf("engine: rotated process %s missing from level %d", e.running.Label, e.runningLevel))
		}
		level.Admit(e.running)
		e.emit(Event{Clock: e.clock.Now(), Kind: EventRotate, Label: e.running.Label, Level: e.runningLevel, Remaining: e.running.RemainingTime})
		e.clearRunning()
		return
	}

	e.persist(e.running)
}

// markStarted stamps the response time on a first dispatch and writes it back.
func (e *Engine) markStarted() {
	if e.running.HasStarted {
		return
	}
	e.running.Start(e.clock.Now())
	e.persist(e.running)
}

func (e *Engine) persist(p Process) {
	if !e.levels[e.runningLevel].Replace(p) {
		panic(fmt.Sprintf("engine: process %s missing from level %d", p.Label, e.runningLevel))
	}
}

func (e *Engine) clearRunning() {
	e.running = Process{}
	e.hasRunning = false
	e.runningLevel = -1
	e.quantumUsed = 0
}

func (e *Engine) emit(ev Event) {
	logrus.Debugf("t=%04d [%-8s] %s level=%d remaining=%d", ev.Clock, ev.Kind, ev.Label, ev.Level, ev.Remaining)
	for _, o := range e.observers {
		o.Observe(ev)
	}
}

// arrivalKey orders the backlog.
type arrivalKey struct {
	arrival int
	seq     uint64
}

// cmpArrival implements the Comparator for the backlog tree.
func cmpArrival(a, b any) int {
	ka, kb := a.(arrivalKey), b.(arrivalKey)
	switch {
	case ka.arrival < kb.arrival:
		return -1
	case ka.arrival > kb.arrival:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
