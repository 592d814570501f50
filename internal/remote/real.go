package remote

import "github.com/sweeney/shelf-lights/internal/serialio"

// byteSource is the part of serialio.Port the reader needs.
type byteSource interface {
	ReadByte() (byte, bool)
	Close() error
}

// RealReader reads codes from the receiver's serial link.
type RealReader struct {
	src byteSource
}

// NewRealReader opens the receiver's serial device.
func NewRealReader(device string, baud int) (*RealReader, error) {
	port, err := serialio.Open(device, baud)
	if err != nil {
		return nil, err
	}
	return &RealReader{src: port}, nil
}

// Next returns at most one waiting code. Later codes stay queued for later ticks.
func (r *RealReader) Next() Code {
	b, ok := r.src.ReadByte()
	if !ok {
		return None
	}
	return Code(b)
}

// Close closes the serial link.
func (r *RealReader) Close() error {
	return r.src.Close()
}
