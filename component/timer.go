package component

import "time"

// Window is a span of wall-clock time that opens at a start instant and
// lasts a fixed Duration. It replaces frame-counted cooldowns so timing is
// independent of the tick rate.
type Window struct {
	Duration time.Duration

	start  time.Time
	active bool
}

func NewWindow(d time.Duration) Window {
	return Window{Duration: d}
}

// Open (re)starts the window at now.
func (w *Window) Open(now time.Time) {
	w.start = now
	w.active = true
}

func (w *Window) Close() {
	w.active = false
}

func (w *Window) Active() bool {
	return w.active
}

// Expired reports whether an open window has run its full duration.
func (w *Window) Expired(now time.Time) bool {
	return w.active && now.Sub(w.start) >= w.Duration
}

// Running reports whether the window is open and has not yet expired at now.
func (w *Window) Running(now time.Time) bool {
	return w.active && now.Sub(w.start) < w.Duration
}

// Elapsed returns the time since the window opened, zero when closed.
func (w *Window) Elapsed(now time.Time) time.Duration {
	if !w.active {
		return 0
	}
	return now.Sub(w.start)
}

// Cooldown gates an action to at most once per Interval.
type Cooldown struct {
	Interval time.Duration

	last time.Time
	used bool
}

func NewCooldown(d time.Duration) Cooldown {
	return Cooldown{Interval: d}
}

// Ready reports whether the interval has elapsed since the last Mark. A
// cooldown that was never marked is ready.
func (c *Cooldown) Ready(now time.Time) bool {
	return !c.used || now.Sub(c.last) >= c.Interval
}

func (c *Cooldown) Mark(now time.Time) {
	c.last = now
	c.used = true
}

// Reset makes the cooldown ready again.
func (c *Cooldown) Reset() {
	c.used = false
}
