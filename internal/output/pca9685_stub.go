//go:build !linux

package output

import (
	"errors"

	"github.com/sweeney/shelf-lights/internal/gpio"
)

// OpenPCA9685 returns an error on non-Linux platforms.
func OpenPCA9685(dev string, addr int, oe gpio.Pin, shelves int) (*PCA9685, error) {
	return nil, errors.New("i2c: not supported on this platform (requires Linux)")
}
