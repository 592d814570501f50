// Package gpio drives GPIO output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Pin is a single output line.
type Pin interface {
	// Set drives the line: true = high (active), false = low.
	Set(high bool) error

	// Close releases the line.
	Close() error
}

// Pin defaults (BCM numbering). -1 disables the line.
const (
	DefaultPinSensorEnable = 23 // MaxSonar pin 4: hold high for continuous ranging
	DefaultPinOutputEnable = -1 // PCA9685 OE, active low
)
