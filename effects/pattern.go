package effects

import (
	"time"

	"github.com/Jon-Bright/ledbeat/beat"
	"github.com/Jon-Bright/ledbeat/pixarray"
)

type PatternKind int

const (
	Solid PatternKind = iota
	Blink
	PulseWave
)

func (k PatternKind) String() string {
	switch k {
	case Solid:
		return "solid"
	case Blink:
		return "blink"
	case PulseWave:
		return "pulse"
	}
	return "unknown"
}

// PulseWave patterns step in fixed sub-beats, whatever their period.
const pulseWaveTick = 50 * time.Millisecond

// Pattern colours a single pixel. Blink alternates between two colours;
// PulseWave scales whatever colour it is applied to along a triangle wave
// between minGamma and 1.
type Pattern struct {
	kind     PatternKind
	color1   pixarray.Pixel
	color2   pixarray.Pixel
	period   uint32
	minGamma float64
	keeper   beat.Keeper
	phase    uint32
	count    uint32
}

func NewSolid(c pixarray.Pixel) *Pattern {
	return &Pattern{kind: Solid, color1: c}
}

func NewBlink(clock beat.Clock, c1, c2 pixarray.Pixel, period time.Duration) *Pattern {
	return &Pattern{kind: Blink, color1: c1, color2: c2, keeper: beat.NewKeeper(clock, period)}
}

// NewPulseWave returns a pulse with the given full period. A period under a
// millisecond leaves colours untouched.
func NewPulseWave(clock beat.Clock, period time.Duration, minGamma float64) *Pattern {
	p := &Pattern{kind: PulseWave, period: uint32(period.Milliseconds()), minGamma: minGamma}
	if p.period > 0 {
		p.keeper = beat.NewKeeper(clock, pulseWaveTick)
	}
	return p
}

func (p *Pattern) Kind() PatternKind {
	return p.kind
}

// Advance moves the pattern on by however many beats have passed and
// reports whether it changed.
func (p *Pattern) Advance() bool {
	switch p.kind {
	case Blink:
		b := p.keeper.Poll()
		if b == 0 {
			return false
		}
		p.phase = (p.phase + b) % 2
		return true
	case PulseWave:
		if p.period == 0 {
			return false
		}
		b := p.keeper.Poll()
		if b == 0 {
			return false
		}
		p.count += b
		return true
	}
	return false
}

func (p *Pattern) gamma() float64 {
	level := float64(uint64(p.count) * uint64(pulseWaveTick.Milliseconds()) % uint64(p.period))
	half := float64(p.period) / 2
	g := 2 - level/half
	if level <= half {
		g = level / half
	}
	return g*(1-p.minGamma) + p.minGamma
}

// Apply returns the colour c becomes under the pattern.
func (p *Pattern) Apply(c pixarray.Pixel) pixarray.Pixel {
	switch p.kind {
	case Solid:
		return p.color1
	case Blink:
		if p.phase == 0 {
			return p.color1
		}
		return p.color2
	case PulseWave:
		if p.period == 0 {
			return c
		}
		return pixarray.Scaled(c, p.gamma())
	}
	return c
}
