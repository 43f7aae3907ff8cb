package pixarray

import (
	"fmt"
	"math"
)

// Pixel is an RGBW colour, 8 bits per channel.
type Pixel struct {
	R uint8
	G uint8
	B uint8
	W uint8
}

var Black = Pixel{}

func scale(c uint8, gamma float64) uint8 {
	// Through int so that out-of-range products truncate like the 8-bit
	// arithmetic the strips expect.
	return uint8(int(math.Round(gamma * float64(c))))
}

// Add blends src into p, scaled by gamma. Channels wrap around on overflow.
func (p *Pixel) Add(src Pixel, gamma float64) {
	p.R += scale(src.R, gamma)
	p.G += scale(src.G, gamma)
	p.B += scale(src.B, gamma)
	p.W += scale(src.W, gamma)
}

// Scaled returns src scaled by gamma, i.e. src added onto black.
func Scaled(src Pixel, gamma float64) Pixel {
	p := Black
	p.Add(src, gamma)
	return p
}

// Packed returns the pixel as 0xWWRRGGBB.
func (p Pixel) Packed() uint32 {
	return uint32(p.W)<<24 | uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
}

func Unpack(c uint32) Pixel {
	return Pixel{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), W: uint8(c >> 24)}
}

func (p Pixel) IsBlack() bool {
	return p == Black
}

func (p Pixel) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x", p.R, p.G, p.B, p.W)
}
