package output

import (
	"errors"
	"fmt"

	"github.com/sweeney/shelf-lights/internal/gpio"
	"github.com/sweeney/shelf-lights/internal/light"
)

// PCA9685 registers.
const (
	regMode1    = 0x00
	regMode2    = 0x01
	regLED0     = 0x06 // LED0_ON_L; each channel takes 4 registers
	regAllLED   = 0xFA // ALL_LED_ON_L
	regPrescale = 0xFE

	mode1Sleep   = 0x10
	mode1AutoInc = 0x20
	mode1Restart = 0x80
	mode2OutDrv  = 0x04 // totem pole outputs

	fullBit = 0x10 // full on / full off bit in the _H registers

	// PCA9685Channels is the number of PWM outputs on one controller.
	PCA9685Channels = 16

	// DefaultPCA9685Address is the controller's address with no jumpers set.
	DefaultPCA9685Address = 0x40

	oscillatorHz = 25_000_000
	pwmHz        = 1000
)

// registers is the part of an I2C device the driver needs.
type registers interface {
	WriteReg(reg byte, buf []byte) error
	Close() error
}

// PCA9685 maps shelf s, color c to PWM channel s*3+c. Values are
// buffered and only changed channels are written on Flush.
type PCA9685 struct {
	dev    registers
	oe     gpio.Pin
	values []uint8
	dirty  []bool
}

func newPCA9685(dev registers, oe gpio.Pin, shelves int) (*PCA9685, error) {
	n := shelves * light.Colors
	if n > PCA9685Channels {
		return nil, fmt.Errorf("pca9685: %d shelves need %d channels, have %d", shelves, n, PCA9685Channels)
	}
	p := &PCA9685{
		dev:    dev,
		oe:     oe,
		values: make([]uint8, n),
		dirty:  make([]bool, n),
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PCA9685) init() error {
	writes := []struct {
		reg byte
		buf []byte
	}{
		{regMode1, []byte{mode1Sleep}},
		{regPrescale, []byte{prescale(pwmHz)}},
		{regMode2, []byte{mode2OutDrv}},
		{regAllLED, pwmWord(0)},
		{regMode1, []byte{mode1Restart | mode1AutoInc}},
	}
	for _, w := range writes {
		if err := p.dev.WriteReg(w.reg, w.buf); err != nil {
			return fmt.Errorf("pca9685: init register 0x%02x: %w", w.reg, err)
		}
	}
	if p.oe != nil {
		if err := p.oe.Set(false); err != nil {
			return fmt.Errorf("pca9685: enable outputs: %w", err)
		}
	}
	return nil
}

// Set buffers a channel value.
func (p *PCA9685) Set(shelf, color int, value uint8) {
	ch := shelf*light.Colors + color
	if ch < 0 || ch >= len(p.values) {
		return
	}
	if p.values[ch] != value {
		p.values[ch] = value
		p.dirty[ch] = true
	}
}

// Flush writes every changed channel.
func (p *PCA9685) Flush() error {
	for ch, dirty := range p.dirty {
		if !dirty {
			continue
		}
		if err := p.dev.WriteReg(byte(regLED0+4*ch), pwmWord(p.values[ch])); err != nil {
			return fmt.Errorf("pca9685: write channel %d: %w", ch, err)
		}
		p.dirty[ch] = false
	}
	return nil
}

// Close switches every output off, disables the outputs and releases the bus.
func (p *PCA9685) Close() error {
	var errs []error
	if err := p.dev.WriteReg(regAllLED, pwmWord(0)); err != nil {
		errs = append(errs, fmt.Errorf("pca9685: all off: %w", err))
	}
	if p.oe != nil {
		if err := p.oe.Set(true); err != nil {
			errs = append(errs, fmt.Errorf("pca9685: disable outputs: %w", err))
		}
		if err := p.oe.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := p.dev.Close(); err != nil {
		errs = append(errs, fmt.Errorf("pca9685: close: %w", err))
	}
	return errors.Join(errs...)
}

// pwmWord encodes an 8-bit level as ON_L, ON_H, OFF_L, OFF_H.
// 0 and 255 use the full-off and full-on bits.
func pwmWord(v uint8) []byte {
	switch v {
	case 0:
		return []byte{0, 0, 0, fullBit}
	case 255:
		return []byte{0, fullBit, 0, 0}
	}
	off := int(v) * 4095 / 255
	return []byte{0, 0, byte(off), byte(off >> 8)}
}

// prescale returns the PRESCALE register value for a PWM frequency.
func prescale(hz int) byte {
	return byte((oscillatorHz+2048*hz)/(4096*hz) - 1)
}
