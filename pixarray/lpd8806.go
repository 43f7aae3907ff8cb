package pixarray

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// LPD8806 drives a strip of LPD8806 LEDs on an SPI bus. Each channel is 7
// bits with the high bit set; a run of zero bytes latches the frame.
type LPD8806 struct {
	ba        *baseArray
	conn      spi.Conn
	sendBytes []byte
	numReset  int
}

func lpd8806Encode(v uint8) byte {
	return 0x80 | v>>1
}

func NewLPD8806(conn spi.Conn, numPixels int, order int) (*LPD8806, error) {
	if _, ok := offsets[order]; !ok {
		return nil, fmt.Errorf("unknown colour order %d", order)
	}
	if NumColors(order) != 3 {
		return nil, fmt.Errorf("LPD8806 has no white channel, can't use order %d", order)
	}
	numReset := (numPixels + 31) / 32
	val := make([]byte, numPixels*3+numReset)
	ba := newBaseArray(numPixels, val[:numPixels*3], order, lpd8806Encode)
	ba.SetAll(Black)
	return &LPD8806{ba, conn, val, numReset}, nil
}

// OpenLPD8806 opens an SPI port by name ("" for the first one) and returns
// the strip along with the port, which the caller must close.
func OpenLPD8806(port string, speed physic.Frequency, numPixels int, order int) (*LPD8806, spi.PortCloser, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open SPI port '%s': %w", port, err)
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("couldn't connect to SPI port '%s' at %v: %w", port, speed, err)
	}
	l, err := NewLPD8806(c, numPixels, order)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return l, p, nil
}

func (l *LPD8806) Begin() error {
	firstReset := make([]byte, l.numReset)
	if err := l.conn.Tx(firstReset, nil); err != nil {
		return fmt.Errorf("couldn't reset: %w", err)
	}
	return nil
}

func (l *LPD8806) NumPixels() int {
	return l.ba.numPixels
}

func (l *LPD8806) SetPixelColor(i int, c uint32) {
	l.ba.SetOne(i, Unpack(c))
}

func (l *LPD8806) Show() error {
	return l.conn.Tx(l.sendBytes, nil)
}
