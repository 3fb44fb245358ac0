// internal/sched/event.go

package sched

// EventKind represents the type of engine event
type EventKind int

const (
	EventIdle EventKind = iota
	EventArrive
	EventDispatch
	EventPreempt
	EventSwap
	EventExecute
	EventRotate
	EventFinish
)

// Event is emitted on every decision and on every executed or idle unit.
// Level is 0-based; Clock is the tick at which the event happened.
type Event struct {
	Clock     int
	Kind      EventKind
	Label     string
	Level     int
	Remaining int
}

func (k EventKind) String() string {
	switch k {
	case EventIdle:
		return "Idle"
	case EventArrive:
		return "Arrive"
	case EventDispatch:
		return "Dispatch"
	case EventPreempt:
		return "Preempt"
	case EventSwap:
		return "Swap"
	case EventExecute:
		return "Execute"
	case EventRotate:
		return "Rotate"
	case EventFinish:
		return "Finish"
	default:
		return "Unknown"
	}
}

// Observer receives engine events synchronously, in emission order.
// Implementations must not call back into the engine.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }
