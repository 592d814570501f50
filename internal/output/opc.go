package output

import (
	"fmt"

	"github.com/kellydunn/go-opc"

	"github.com/sweeney/shelf-lights/internal/light"
)

// sender is the part of opc.Client the driver needs.
type sender interface {
	Send(m *opc.Message) error
}

// OPC drives one pixel per shelf on an Open Pixel Control server
// (fadecandy, gl_server). A frame is sent only when a pixel changed.
type OPC struct {
	client  sender
	channel uint8
	pixels  []light.Color
	dirty   bool
}

// DialOPC connects to an OPC server at host:port.
func DialOPC(server string, shelves int) (*OPC, error) {
	oc := opc.NewClient()
	if err := oc.Connect("tcp", server); err != nil {
		return nil, fmt.Errorf("opc: connect %s: %w", server, err)
	}
	return newOPC(oc, shelves), nil
}

func newOPC(client sender, shelves int) *OPC {
	return &OPC{client: client, pixels: make([]light.Color, shelves)}
}

// Set updates one component of a shelf pixel.
func (o *OPC) Set(shelf, color int, value uint8) {
	if shelf < 0 || shelf >= len(o.pixels) || color < 0 || color >= light.Colors {
		return
	}
	if o.pixels[shelf][color] != value {
		o.pixels[shelf][color] = value
		o.dirty = true
	}
}

// Flush sends the frame if anything changed.
func (o *OPC) Flush() error {
	if !o.dirty {
		return nil
	}
	m := opc.NewMessage(o.channel)
	m.SetLength(uint16(len(o.pixels) * light.Colors))
	for i, c := range o.pixels {
		m.SetPixelColor(i, c[light.Red], c[light.Green], c[light.Blue])
	}
	if err := o.client.Send(m); err != nil {
		return fmt.Errorf("opc: send: %w", err)
	}
	o.dirty = false
	return nil
}

// Close blanks the pixels.
func (o *OPC) Close() error {
	for i := range o.pixels {
		o.pixels[i] = light.Color{}
	}
	o.dirty = true
	return o.Flush()
}
