//go:build linux

package output

import (
	"fmt"

	"golang.org/x/exp/io/i2c"

	"github.com/sweeney/shelf-lights/internal/gpio"
)

// OpenPCA9685 opens the controller at addr on an I2C bus device such as
// /dev/i2c-1. oe may be nil when the OE pin is hard-wired low.
func OpenPCA9685(dev string, addr int, oe gpio.Pin, shelves int) (*PCA9685, error) {
	d, err := i2c.Open(&i2c.Devfs{Dev: dev}, addr)
	if err != nil {
		return nil, fmt.Errorf("open %s addr 0x%02x: %w", dev, addr, err)
	}
	p, err := newPCA9685(d, oe, shelves)
	if err != nil {
		d.Close()
		return nil, err
	}
	return p, nil
}
