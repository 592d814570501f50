//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPin drives an actual GPIO line using the Linux GPIO character device.
type RealPin struct {
	line *gpiocdev.Line
	pin  int
}

// NewRealPin requests pin on gpiochip0 as an output at the given initial level.
func NewRealPin(pin int, high bool) (*RealPin, error) {
	line, err := gpiocdev.RequestLine("gpiochip0", pin, gpiocdev.AsOutput(level(high)))
	if err != nil {
		return nil, fmt.Errorf("request pin %d: %w", pin, err)
	}
	return &RealPin{line: line, pin: pin}, nil
}

// Set drives the line high or low.
func (p *RealPin) Set(high bool) error {
	if err := p.line.SetValue(level(high)); err != nil {
		return fmt.Errorf("set pin %d: %w", p.pin, err)
	}
	return nil
}

// Close releases the line.
// Reconfigures it to input with pull-down (matching Pi boot defaults) before
// closing so attached hardware sees a known state across reboots.
func (p *RealPin) Close() error {
	var errs []error
	if err := p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", p.pin, err))
	}
	if err := p.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", p.pin, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(high bool) int {
	if high {
		return 1
	}
	return 0
}
