// Package timectrl provides the stepping simulation clock that drives
// in-process trial execution.
package timectrl

import (
	"sync"
	"time"
)

// SimClock is a read-only view of simulation time, counted from the
// start of the trial.
type SimClock interface {
	// Now returns the current simulated offset from trial start.
	Now() time.Duration
}

// Clock advances simulation time in fixed ticks from zero to a
// horizon, notifying listeners synchronously at every step. Listener
// order is registration order, which keeps trial execution — and
// therefore trace output — deterministic.
type Clock struct {
	mu   sync.RWMutex
	tick time.Duration
	now  time.Duration

	listeners []func(time.Duration)
}

// NewClock constructs a clock stepping by tick.
func NewClock(tick time.Duration) *Clock {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	return &Clock{tick: tick}
}

// Now returns the current simulated offset. Implements SimClock.
func (c *Clock) Now() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Tick returns the step size.
func (c *Clock) Tick() time.Duration {
	return c.tick
}

// AddListener registers fn to be invoked at every step with the
// simulated time of that step.
func (c *Clock) AddListener(fn func(simTime time.Duration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Run steps the clock from its current time up to and including
// horizon, invoking every listener at each step. It returns the number
// of steps executed. Run is synchronous; it is not safe to call
// concurrently with itself.
func (c *Clock) Run(horizon time.Duration) int {
	steps := 0
	for {
		c.mu.Lock()
		next := c.now + c.tick
		if next > horizon {
			c.mu.Unlock()
			return steps
		}
		c.now = next
		listeners := c.listeners
		c.mu.Unlock()

		for _, fn := range listeners {
			fn(next)
		}
		steps++
	}
}
