package light

import "time"

// MinRemaining is the shortest remaining duration AdjustSpeed can leave on a fade.
const MinRemaining = 10 * time.Millisecond

// Channel is a single 0-255 intensity channel that fades toward a target.
type Channel struct {
	out   Output
	shelf int
	color int

	value  uint8
	origin uint8 // value when the current fade segment began
	target uint8

	duration time.Duration
	elapsed  time.Duration

	// last is the time of the previous Advance; zero until the first one.
	last time.Time
}

// NewChannel creates a channel at 0 that writes to out at (shelf, color).
func NewChannel(out Output, shelf, color int) *Channel {
	return &Channel{out: out, shelf: shelf, color: color}
}

// Value returns the current intensity.
func (c *Channel) Value() uint8 { return c.value }

// Target returns the intensity the channel is fading toward.
func (c *Channel) Target() uint8 { return c.target }

// IsFading reports whether the channel has not reached its target.
func (c *Channel) IsFading() bool { return c.value != c.target }

// SetImmediate cancels any fade and jumps to v.
func (c *Channel) SetImmediate(v uint8) {
	c.value = v
	c.origin = v
	c.target = v
	c.duration = 0
	c.elapsed = 0
	c.out.Set(c.shelf, c.color, v)
}

// FadeTo starts a linear fade from the current value to target over d,
// replacing any fade already in progress. d <= 0 sets the value immediately.
func (c *Channel) FadeTo(target uint8, d time.Duration) {
	if d <= 0 {
		c.SetImmediate(target)
		return
	}
	c.origin = c.value
	c.target = target
	c.duration = d
	c.elapsed = 0
}

// Advance moves the fade forward by the time since the previous Advance and
// reports whether the channel is still fading.
func (c *Channel) Advance(now time.Time) bool {
	var dt time.Duration
	switch {
	case c.last.IsZero():
		c.last = now
	case now.After(c.last):
		dt = now.Sub(c.last)
		c.last = now
	}

	if !c.IsFading() {
		return false
	}

	c.elapsed += dt
	next := c.target
	if c.elapsed < c.duration {
		span := int64(c.target) - int64(c.origin)
		next = uint8(int64(c.origin) + span*int64(c.elapsed)/int64(c.duration))
	}
	if next != c.value {
		c.value = next
		c.out.Set(c.shelf, c.color, next)
	}
	return c.IsFading()
}

// Anchor moves the fade clock to now without advancing the fade: time that
// passed outside the control loop is skipped.
func (c *Channel) Anchor(now time.Time) {
	c.last = now
}

// AdjustSpeed changes the remaining duration of an active fade by delta.
// Negative values finish sooner. The remaining time never drops below MinRemaining.
func (c *Channel) AdjustSpeed(delta time.Duration) {
	if !c.IsFading() {
		return
	}
	remaining := c.duration - c.elapsed + delta
	if remaining < MinRemaining {
		remaining = MinRemaining
	}
	c.origin = c.value
	c.duration = remaining
	c.elapsed = 0
}
