// Package serialio opens UART links and makes them readable without blocking
// the control loop. A single goroutine per port copies bytes into a buffered
// channel; the loop drains whatever has arrived on each tick.
package serialio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/tarm/serial"
)

// bufferSize bounds how many unread bytes a port holds before the pump
// stops reading and lets the kernel buffer fill instead.
const bufferSize = 1024

// Port is a non-blocking byte source.
type Port struct {
	name string
	rc   io.ReadCloser
	ch   chan byte
	done chan struct{}
	once sync.Once
}

// Open opens the named serial device at baud and starts pumping it.
func Open(name string, baud int) (*Port, error) {
	sp, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return NewPort(name, sp), nil
}

// NewPort starts pumping rc. name is used only in log lines.
func NewPort(name string, rc io.ReadCloser) *Port {
	p := &Port{
		name: name,
		rc:   rc,
		ch:   make(chan byte, bufferSize),
		done: make(chan struct{}),
	}
	go p.pump()
	return p
}

func (p *Port) pump() {
	buf := make([]byte, 64)
	for {
		n, err := p.rc.Read(buf)
		for _, b := range buf[:n] {
			select {
			case p.ch <- b:
			case <-p.done:
				return
			}
		}
		if err != nil {
			select {
			case <-p.done:
			default:
				if !errors.Is(err, io.EOF) {
					log.Printf("serial %s: read error: %v", p.name, err)
				}
			}
			return
		}
	}
}

// ReadByte returns the next received byte, or false if none is waiting.
func (p *Port) ReadByte() (byte, bool) {
	select {
	case b := <-p.ch:
		return b, true
	default:
		return 0, false
	}
}

// Drain appends every waiting byte to dst.
func (p *Port) Drain(dst []byte) []byte {
	for {
		b, ok := p.ReadByte()
		if !ok {
			return dst
		}
		dst = append(dst, b)
	}
}

// Close stops the pump and closes the underlying device.
func (p *Port) Close() error {
	p.once.Do(func() { close(p.done) })
	return p.rc.Close()
}
