// Package clock provides the per-item countdown used by timed exercises.
package clock

// Countdown counts down from a fixed budget of whole seconds to zero.
// It holds no timer of its own: the host delivers one Tick per second
// while the countdown is running, so the same code drives both the UI
// and the tests.
type Countdown struct {
	budget    int
	remaining int
	running   bool
	expired   bool
}

// New creates a stopped countdown with the given budget in seconds.
// A non-positive budget is treated as zero.
func New(budget int) *Countdown {
	if budget < 0 {
		budget = 0
	}
	return &Countdown{budget: budget, remaining: budget}
}

// Budget returns the configured budget in seconds.
func (c *Countdown) Budget() int {
	return c.budget
}

// Remaining returns the seconds left. Never negative.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether the countdown is active.
func (c *Countdown) Running() bool {
	return c.running
}

// Expired reports whether the countdown has crossed zero since the
// last Start or Reset. It latches: once true it stays true until the
// countdown is restarted, so the zero-crossing fires at most once.
func (c *Countdown) Expired() bool {
	return c.expired
}

// Reset restarts the countdown at the full budget.
func (c *Countdown) Reset() {
	c.Start(c.budget)
}

// Start begins counting down from the given remaining value, clamped
// to [0, budget]. Used both for fresh items (remaining == budget) and
// for resuming a persisted session at its saved value.
func (c *Countdown) Start(remaining int) {
	if remaining > c.budget {
		remaining = c.budget
	}
	if remaining < 0 {
		remaining = 0
	}
	c.remaining = remaining
	c.running = true
	c.expired = remaining == 0
}

// Stop freezes the countdown at its current value.
func (c *Countdown) Stop() {
	c.running = false
}

// Tick consumes one second. It returns true exactly once, on the tick
// that crosses zero; later ticks and ticks while stopped return false.
func (c *Countdown) Tick() bool {
	if !c.running || c.expired {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.expired = true
		return true
	}
	return false
}
