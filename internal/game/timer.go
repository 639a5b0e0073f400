package game

import "time"

// TimerPhase tracks the countdown lifecycle.
type TimerPhase int

const (
	TimerIdle TimerPhase = iota
	TimerRunning
	TimerExpired
	TimerStopped
)

// Countdown is the per-question timer. It is not safe for concurrent use on
// its own; the owning session serializes every call, including the tick
// callback, behind its lock. The tick schedule lives on the injected
// scheduler and at most one schedule exists per instance.
type Countdown struct {
	sched  Scheduler
	cancel CancelFunc

	total     int
	remaining int
	paused    bool
	phase     TimerPhase
}

// NewCountdown builds a timer over the given scheduler.
func NewCountdown(sched Scheduler) *Countdown {
	return &Countdown{sched: sched, phase: TimerIdle}
}

// Start resets the countdown to totalSeconds and begins a 1-second tick
// invoking the given callback. Any previous schedule is cancelled first, so
// restarting is idempotent. The callback is expected to re-enter Tick under
// the owner's lock; the owner binds its generation token into the closure.
func (c *Countdown) Start(totalSeconds int, tick func()) {
	c.cancelSchedule()
	c.total = totalSeconds
	c.remaining = totalSeconds
	c.paused = false
	c.phase = TimerRunning
	c.cancel = c.sched.ScheduleRepeating(time.Second, tick)
}

// Tick advances the countdown by one second. It reports the remaining time
// and whether this tick crossed into expiry; the expiry transition is taken
// exactly once and cancels the schedule.
func (c *Countdown) Tick() (remaining int, expired bool) {
	if c.phase != TimerRunning || c.paused {
		return c.remaining, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.phase = TimerExpired
		c.cancelSchedule()
		return c.remaining, true
	}
	return c.remaining, false
}

// Pause suspends the decrement without cancelling the schedule. Calling it
// again without a Resume changes nothing.
func (c *Countdown) Pause() {
	if c.phase == TimerRunning {
		c.paused = true
	}
}

// Resume re-enables the decrement.
func (c *Countdown) Resume() {
	if c.phase == TimerRunning {
		c.paused = false
	}
}

// Paused reports whether the decrement is suspended.
func (c *Countdown) Paused() bool {
	return c.paused
}

// Extend adds seconds to the remaining time. The remaining value may exceed
// the nominal total; only Percent is clamped.
func (c *Countdown) Extend(seconds int) {
	if c.phase == TimerRunning {
		c.remaining += seconds
	}
}

// Stop cancels the schedule without firing expiry; used when an answer
// lands before the clock runs out.
func (c *Countdown) Stop() {
	if c.phase == TimerRunning {
		c.phase = TimerStopped
	}
	c.cancelSchedule()
}

// Remaining returns the seconds left on the clock.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Total returns the per-question budget the countdown started from.
func (c *Countdown) Total() int {
	return c.total
}

// Percent returns the displayed fraction of time left, clamped to [0,100].
func (c *Countdown) Percent() float64 {
	if c.total <= 0 {
		return 0
	}
	pct := float64(c.remaining) / float64(c.total) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Phase returns the current lifecycle phase.
func (c *Countdown) Phase() TimerPhase {
	return c.phase
}

func (c *Countdown) cancelSchedule() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
