// internal/sched/clock.go

package sched

// Clock is the simulated time source. It only moves forward, one unit at a time.
type Clock struct {
	now  int
	idle int
	busy int
}

// Now returns the current tick.
func (c *Clock) Now() int { return c.now }

// Tick advances the clock by one busy unit.
func (c *Clock) Tick() {
	c.now++
	c.busy++
}

// Idle advances the clock by one unit with nothing runnable.
func (c *Clock) Idle() {
	c.now++
	c.idle++
}

// IdleTicks returns how many units passed with the CPU idle.
func (c *Clock) IdleTicks() int { return c.idle }

// BusyTicks returns how many units were spent executing a process.
func (c *Clock) BusyTicks() int { return c.busy }
