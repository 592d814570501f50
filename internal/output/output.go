// Package output pushes channel values to the LED hardware.
// The PCA9685 driver talks to a 16-channel PWM controller over I2C.
// The OPC driver sends one pixel per shelf to an Open Pixel Control server.
package output

import "github.com/sweeney/shelf-lights/internal/light"

// Output types accepted by the -output flag.
const (
	KindPCA9685 = "pca9685"
	KindOPC     = "opc"
	KindNone    = "none"
)

// Device is a light.Output that holds hardware resources.
type Device interface {
	light.Output
	Close() error
}

// Discard drops every value. Used when no LED hardware is attached.
type Discard struct{}

func (Discard) Set(shelf, color int, value uint8) {}
func (Discard) Flush() error                      { return nil }
func (Discard) Close() error                      { return nil }
