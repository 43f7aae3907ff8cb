// Package pixarray holds the pixel buffer of an LED strip and the devices
// that put it on the wire.
package pixarray

import (
	"fmt"

	"github.com/Jon-Bright/ledbeat/logging"
	"go.uber.org/zap"
)

// Strip owns the full pixel buffer for one device. It is not safe for
// concurrent use.
type Strip struct {
	dev    Device
	mode   DebugMode
	pixels []Pixel
	shows  uint64
	logger *zap.SugaredLogger
}

func NewStrip(dev Device, mode DebugMode) *Strip {
	return &Strip{
		dev:    dev,
		mode:   mode,
		pixels: make([]Pixel, dev.NumPixels()),
		logger: logging.New("pixarray"),
	}
}

// Init starts the device and blanks it. The blanking is sent even in dry-run
// mode so that the strip never shows leftovers from a previous run.
func (s *Strip) Init() error {
	if err := s.dev.Begin(); err != nil {
		return fmt.Errorf("couldn't begin device: %w", err)
	}
	s.SetAll(Black)
	if err := s.dev.Show(); err != nil {
		return fmt.Errorf("couldn't blank device: %w", err)
	}
	s.logger.Infow("strip initialised", "pixels", len(s.pixels), "mode", s.mode)
	return nil
}

func (s *Strip) NumPixels() int {
	return len(s.pixels)
}

func (s *Strip) Mode() DebugMode {
	return s.mode
}

func (s *Strip) Set(i int, p Pixel) {
	s.pixels[i] = p
	s.dev.SetPixelColor(i, p.Packed())
}

func (s *Strip) Get(i int) Pixel {
	return s.pixels[i]
}

func (s *Strip) Pixels() []Pixel {
	p := make([]Pixel, len(s.pixels))
	copy(p, s.pixels)
	return p
}

func (s *Strip) SetAll(p Pixel) {
	for i := range s.pixels {
		s.Set(i, p)
	}
}

// Dark reports whether every pixel is black.
func (s *Strip) Dark() bool {
	for _, p := range s.pixels {
		if !p.IsBlack() {
			return false
		}
	}
	return true
}

// Show transmits the buffer, unless in dry-run mode.
func (s *Strip) Show() error {
	if s.mode == DebugDryRun {
		return nil
	}
	if s.mode == DebugPrint {
		s.logger.Infow("show", "frame", s.shows, "dark", s.Dark())
	}
	s.shows++
	if err := s.dev.Show(); err != nil {
		return fmt.Errorf("couldn't show: %w", err)
	}
	return nil
}

// Shows counts how many times the buffer was handed to the device.
func (s *Strip) Shows() uint64 {
	return s.shows
}

func (s *Strip) Clear() error {
	s.SetAll(Black)
	return s.Show()
}
