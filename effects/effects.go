// Package effects composites beat-driven effects onto ranges of a strip.
package effects

import (
	"math/rand"
	"time"

	"github.com/Jon-Bright/ledbeat/beat"
	"github.com/Jon-Bright/ledbeat/logging"
	"github.com/Jon-Bright/ledbeat/pixarray"
	"go.uber.org/zap"
)

type Direction int

const (
	CW Direction = iota
	CCW
)

func (d Direction) String() string {
	if d == CCW {
		return "ccw"
	}
	return "cw"
}

// Setup describes an effect to add to a Range. It is implemented by
// SnakeSetup, PulseSetup and RandomSetup only.
type Setup interface {
	setup()
}

// SnakeSetup is a lit head that walks around the range with a trail of
// Length pixels behind it, dimming towards the tail by FadeFactor.
type SnakeSetup struct {
	Color      pixarray.Pixel
	Offset     int
	Direction  Direction
	Length     int
	FadeFactor float64
	Period     time.Duration
}

// PulseSetup toggles the whole range on and off every Period.
type PulseSetup struct {
	Color  pixarray.Pixel
	Period time.Duration
}

// RandomSetup lights Count randomly chosen pixels in Color, replacing the
// oldest with a fresh pick every Period. All other pixels get Background.
type RandomSetup struct {
	Color      pixarray.Pixel
	Background pixarray.Pixel
	Count      int
	Period     time.Duration
}

func (SnakeSetup) setup()  {}
func (PulseSetup) setup()  {}
func (RandomSetup) setup() {}

// Options are shared by Range and Indicator. Zero fields get defaults.
type Options struct {
	Clock  beat.Clock
	Rand   *rand.Rand
	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = beat.System
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = logging.New("effects")
	}
	return o
}
