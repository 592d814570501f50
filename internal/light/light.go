// Package light contains the per-channel fade engine and the shelf grid built on it.
// Like package logic, it never sleeps and never reads the clock: every fade is
// advanced by an explicit Advance(now) call from the control loop.
package light

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/constraints"
)

// Color component indices within a shelf.
const (
	Red = iota
	Green
	Blue

	// Colors is the number of channels per shelf.
	Colors
)

// Color is an 8-bit RGB triple indexed by Red, Green and Blue.
type Color [Colors]uint8

// Gray returns the color with all three components set to v.
func Gray(v uint8) Color {
	return Color{v, v, v}
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c[Red]) / 255,
		G: float64(c[Green]) / 255,
		B: float64(c[Blue]) / 255,
	}.Hex()
}

func (c Color) String() string {
	return fmt.Sprintf("%d, %d, %d", c[Red], c[Green], c[Blue])
}

// Output receives channel values. Set is called only when a value changes;
// Flush pushes pending values to the hardware once per tick.
type Output interface {
	Set(shelf, color int, value uint8)
	Flush() error
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap returns lo when v exceeds hi and hi when v is below lo.
func Wrap[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return hi
	}
	if v > hi {
		return lo
	}
	return v
}
