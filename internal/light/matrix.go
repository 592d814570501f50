package light

import "time"

// Matrix is a fixed grid of channels: one row per shelf, one column per color.
type Matrix struct {
	channels [][Colors]*Channel
}

// NewMatrix creates a matrix of shelves × 3 channels writing to out.
func NewMatrix(shelves int, out Output) *Matrix {
	m := &Matrix{channels: make([][Colors]*Channel, shelves)}
	for s := range m.channels {
		for c := 0; c < Colors; c++ {
			m.channels[s][c] = NewChannel(out, s, c)
		}
	}
	return m
}

// Shelves returns the number of shelves.
func (m *Matrix) Shelves() int { return len(m.channels) }

// Channel returns a single channel.
func (m *Matrix) Channel(shelf, color int) *Channel { return m.channels[shelf][color] }

// AllOff cancels every fade and turns every channel off.
func (m *Matrix) AllOff() {
	m.SetAll(Color{})
}

// SetShelf sets one shelf to c immediately.
func (m *Matrix) SetShelf(shelf int, c Color) {
	for i, ch := range m.channels[shelf] {
		ch.SetImmediate(c[i])
	}
}

// SetAll sets every shelf to c immediately.
func (m *Matrix) SetAll(c Color) {
	for s := range m.channels {
		m.SetShelf(s, c)
	}
}

// FadeShelf fades one shelf to c over d.
func (m *Matrix) FadeShelf(shelf int, c Color, d time.Duration) {
	for i, ch := range m.channels[shelf] {
		ch.FadeTo(c[i], d)
	}
}

// FadeAll fades every shelf to c over d.
func (m *Matrix) FadeAll(c Color, d time.Duration) {
	for s := range m.channels {
		m.FadeShelf(s, c, d)
	}
}

// FadeAllLevel fades every shelf to white at the given level.
func (m *Matrix) FadeAllLevel(level uint8, d time.Duration) {
	m.FadeAll(Gray(level), d)
}

// AdvanceAll advances every channel and reports whether any is still fading.
// Call it exactly once per tick.
func (m *Matrix) AdvanceAll(now time.Time) bool {
	fading := false
	for _, shelf := range m.channels {
		for _, ch := range shelf {
			if ch.Advance(now) {
				fading = true
			}
		}
	}
	return fading
}

// AnchorAll moves every channel's fade clock to now without advancing any
// fade. Use it after a blocking pause inside a tick instead of a second AdvanceAll.
func (m *Matrix) AnchorAll(now time.Time) {
	for _, shelf := range m.channels {
		for _, ch := range shelf {
			ch.Anchor(now)
		}
	}
}

// IsShelfFading reports whether any channel of the shelf is fading.
func (m *Matrix) IsShelfFading(shelf int) bool {
	for _, ch := range m.channels[shelf] {
		if ch.IsFading() {
			return true
		}
	}
	return false
}

// ChangeGlobalSpeed forwards AdjustSpeed to every channel.
func (m *Matrix) ChangeGlobalSpeed(delta time.Duration) {
	for _, shelf := range m.channels {
		for _, ch := range shelf {
			ch.AdjustSpeed(delta)
		}
	}
}

// Colors returns the current value of every shelf.
func (m *Matrix) Colors() []Color {
	out := make([]Color, len(m.channels))
	for s, shelf := range m.channels {
		for i, ch := range shelf {
			out[s][i] = ch.Value()
		}
	}
	return out
}
