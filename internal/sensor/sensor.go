// Package sensor reads distances from a MaxBotix-style ultrasonic rangefinder.
// The sensor streams ASCII frames of the form "R1234\r" over a serial link.
package sensor

// Reader yields the latest distance reading.
type Reader interface {
	// Distance returns the newest complete reading in millimeters, or the
	// previous reading if no complete frame has arrived since the last call.
	Distance() int

	// Close releases the serial link and enable line.
	Close() error
}

// Link defaults.
const (
	DefaultDevice = "/dev/ttyAMA2"
	DefaultBaud   = 9600
)
