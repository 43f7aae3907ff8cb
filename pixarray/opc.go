package pixarray

import (
	"fmt"

	opc "github.com/kellydunn/go-opc"
)

// OPCSender is satisfied by *opc.Client.
type OPCSender interface {
	Send(m *opc.Message) error
}

// OPC sends frames to an Open Pixel Control server such as fcserver. OPC
// pixels are RGB only; the white channel is dropped.
type OPC struct {
	sender  OPCSender
	channel uint8
	colors  []uint32
}

func NewOPC(sender OPCSender, channel uint8, numPixels int) *OPC {
	return &OPC{sender, channel, make([]uint32, numPixels)}
}

// DialOPC connects to an OPC server over TCP.
func DialOPC(addr string, channel uint8, numPixels int) (*OPC, error) {
	c := opc.NewClient()
	if err := c.Connect("tcp", addr); err != nil {
		return nil, fmt.Errorf("couldn't connect to OPC server %s: %w", addr, err)
	}
	return NewOPC(c, channel, numPixels), nil
}

func (o *OPC) Begin() error {
	return nil
}

func (o *OPC) NumPixels() int {
	return len(o.colors)
}

func (o *OPC) SetPixelColor(i int, c uint32) {
	o.colors[i] = c
}

func (o *OPC) Show() error {
	m := opc.NewMessage(o.channel)
	m.SetLength(uint16(len(o.colors) * 3))
	for i, c := range o.colors {
		p := Unpack(c)
		m.SetPixelColor(i, p.R, p.G, p.B)
	}
	if err := o.sender.Send(m); err != nil {
		return fmt.Errorf("couldn't send OPC frame: %w", err)
	}
	return nil
}
