package effects

import (
	"fmt"
	"time"

	"github.com/Jon-Bright/ledbeat/pixarray"
	"go.uber.org/zap"
)

const MaxPatterns = 2

// Indicator drives a single status pixel from up to MaxPatterns patterns,
// applied in the order they were added.
type Indicator struct {
	strip    *pixarray.Strip
	index    int
	patterns [MaxPatterns]*Pattern
	n        int
	dirty    bool
	mode     pixarray.DebugMode
	logger   *zap.SugaredLogger
}

func NewIndicator(strip *pixarray.Strip, index int, opts Options) (*Indicator, error) {
	if index < 0 || index >= strip.NumPixels() {
		return nil, fmt.Errorf("indicator pixel %d outside strip of %d pixels", index, strip.NumPixels())
	}
	opts = opts.withDefaults()
	return &Indicator{strip: strip, index: index, mode: strip.Mode(), logger: opts.Logger}, nil
}

// NewBoardIndicator is an indicator on pixel 0 with a slow green heartbeat,
// for showing that the controller is alive.
func NewBoardIndicator(strip *pixarray.Strip, opts Options) (*Indicator, error) {
	ind, err := NewIndicator(strip, 0, opts)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	ind.AddPattern(NewBlink(opts.Clock, pixarray.Pixel{G: 0x20}, pixarray.Black, time.Second))
	return ind, nil
}

func (ind *Indicator) AddPattern(p *Pattern) bool {
	if p == nil {
		return false
	}
	if ind.n == MaxPatterns {
		if ind.mode == pixarray.DebugPrint {
			ind.logger.Infow("pattern dropped, indicator full", "pixel", ind.index, "kind", p.Kind())
		}
		return false
	}
	ind.patterns[ind.n] = p
	ind.n++
	ind.dirty = true
	return true
}

func (ind *Indicator) ClearPatterns() {
	ind.patterns = [MaxPatterns]*Pattern{}
	ind.n = 0
	ind.dirty = true
}

// SetColor drops all patterns and shows c.
func (ind *Indicator) SetColor(c pixarray.Pixel) error {
	ind.ClearPatterns()
	ind.strip.Set(ind.index, c)
	ind.dirty = false
	return ind.strip.Show()
}

func (ind *Indicator) Color() pixarray.Pixel {
	return ind.strip.Get(ind.index)
}

// Update advances the patterns and, if any moved or the set of patterns
// changed, shows the result.
func (ind *Indicator) Update() (bool, error) {
	changed := ind.dirty
	for _, p := range ind.patterns[:ind.n] {
		if p.Advance() {
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	c := pixarray.Black
	for _, p := range ind.patterns[:ind.n] {
		c = p.Apply(c)
	}
	ind.strip.Set(ind.index, c)
	ind.dirty = false
	return true, ind.strip.Show()
}
