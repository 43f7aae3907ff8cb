package pixarray

import (
	"fmt"
	"strings"
)

const (
	GRB = iota
	BRG
	BGR
	GBR
	RGB
	RBG
	GRBW
	RGBW
)

var StringOrders map[string]int = map[string]int{
	"GRB":  GRB,
	"BRG":  BRG,
	"BGR":  BGR,
	"GBR":  GBR,
	"RGB":  RGB,
	"RBG":  RBG,
	"GRBW": GRBW,
	"RGBW": RGBW,
}

// Byte position of G, R, B and W within one pixel. -1: no white channel.
var offsets map[int][]int = map[int][]int{
	GRB:  {0, 1, 2, -1},
	BRG:  {2, 1, 0, -1},
	BGR:  {1, 2, 0, -1},
	GBR:  {0, 2, 1, -1},
	RGB:  {1, 0, 2, -1},
	RBG:  {2, 0, 1, -1},
	GRBW: {0, 1, 2, 3},
	RGBW: {1, 0, 2, 3},
}

func ParseOrder(s string) (int, error) {
	o, ok := StringOrders[strings.ToUpper(s)]
	if !ok {
		return 0, fmt.Errorf("unknown colour order '%s'", s)
	}
	return o, nil
}

// NumColors is the number of bytes per pixel for the given order.
func NumColors(order int) int {
	if offsets[order][3] >= 0 {
		return 4
	}
	return 3
}

// baseArray lays pixels out as bytes in a device's channel order.
type baseArray struct {
	numPixels int
	numColors int
	pixels    []byte
	g         int
	r         int
	b         int
	w         int
	encode    func(uint8) byte
}

func newBaseArray(numPixels int, pixels []byte, order int, encode func(uint8) byte) *baseArray {
	offsets := offsets[order]
	if encode == nil {
		encode = func(v uint8) byte { return v }
	}
	return &baseArray{
		numPixels: numPixels,
		numColors: NumColors(order),
		pixels:    pixels,
		g:         offsets[0],
		r:         offsets[1],
		b:         offsets[2],
		w:         offsets[3],
		encode:    encode,
	}
}

func (ba *baseArray) SetOne(i int, p Pixel) {
	base := i * ba.numColors
	ba.pixels[base+ba.g] = ba.encode(p.G)
	ba.pixels[base+ba.r] = ba.encode(p.R)
	ba.pixels[base+ba.b] = ba.encode(p.B)
	if ba.w >= 0 {
		ba.pixels[base+ba.w] = ba.encode(p.W)
	}
}

func (ba *baseArray) SetAll(p Pixel) {
	for i := 0; i < ba.numPixels; i++ {
		ba.SetOne(i, p)
	}
}
