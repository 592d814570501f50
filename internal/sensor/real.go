package sensor

import (
	"errors"
	"fmt"

	"github.com/sweeney/shelf-lights/internal/gpio"
	"github.com/sweeney/shelf-lights/internal/serialio"
)

// byteSource is the part of serialio.Port the reader needs.
type byteSource interface {
	Drain(dst []byte) []byte
	Close() error
}

// RealReader parses frames from a serial port.
type RealReader struct {
	src     byteSource
	enable  gpio.Pin
	framer  Framer
	last    int
	scratch []byte
}

// NewRealReader opens the sensor's serial device. If enable is non-nil it is
// driven high so the sensor ranges continuously.
func NewRealReader(device string, baud int, enable gpio.Pin) (*RealReader, error) {
	port, err := serialio.Open(device, baud)
	if err != nil {
		return nil, err
	}
	if enable != nil {
		if err := enable.Set(true); err != nil {
			port.Close()
			return nil, fmt.Errorf("enable ranging: %w", err)
		}
	}
	return newReader(port, enable), nil
}

func newReader(src byteSource, enable gpio.Pin) *RealReader {
	return &RealReader{src: src, enable: enable}
}

// Distance drains the port and returns the newest complete reading.
func (r *RealReader) Distance() int {
	r.scratch = r.src.Drain(r.scratch[:0])
	r.framer.Feed(r.scratch)
	for {
		mm, ok := r.framer.Next()
		if !ok {
			return r.last
		}
		r.last = mm
	}
}

// Close stops ranging and closes the port.
func (r *RealReader) Close() error {
	var errs []error
	if r.enable != nil {
		if err := r.enable.Set(false); err != nil {
			errs = append(errs, err)
		}
		if err := r.enable.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.src.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
