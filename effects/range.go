package effects

import (
	"fmt"
	"math/rand"

	"github.com/Jon-Bright/ledbeat/beat"
	"github.com/Jon-Bright/ledbeat/pixarray"
	"go.uber.org/zap"
)

const (
	MaxSnakes  = 4
	MaxPulses  = 1
	MaxRandoms = 1
	// MaxRandomPixels bounds RandomSetup.Count.
	MaxRandomPixels = 8
)

type snake struct {
	setup  SnakeSetup
	keeper beat.Keeper
	beats  uint32
	head   int
}

type pulse struct {
	setup  PulseSetup
	keeper beat.Keeper
	beats  uint32
	level  uint32
}

type random struct {
	setup  RandomSetup
	keeper beat.Keeper
	beats  uint32
	pixels [MaxRandomPixels]int
	n      int
	cursor int
}

func (rd *random) lit(i int) bool {
	for _, p := range rd.pixels[:rd.n] {
		if p == i {
			return true
		}
	}
	return false
}

// Range is the half-open interval [offset, offset+size) of a strip together
// with the effects running on it. Ranges on the same strip may overlap; the
// last one to update wins.
type Range struct {
	strip  *pixarray.Strip
	offset int
	size   int
	buf    []pixarray.Pixel

	snakes     [MaxSnakes]snake
	numSnakes  int
	pulses     [MaxPulses]pulse
	numPulses  int
	randoms    [MaxRandoms]random
	numRandoms int

	clock  beat.Clock
	rng    *rand.Rand
	mode   pixarray.DebugMode
	logger *zap.SugaredLogger
}

func NewRange(strip *pixarray.Strip, offset int, size int, opts Options) (*Range, error) {
	if size <= 0 {
		return nil, fmt.Errorf("range size must be positive, got %d", size)
	}
	if offset < 0 || offset+size > strip.NumPixels() {
		return nil, fmt.Errorf("range [%d, %d) doesn't fit a strip of %d pixels", offset, offset+size, strip.NumPixels())
	}
	opts = opts.withDefaults()
	return &Range{
		strip:  strip,
		offset: offset,
		size:   size,
		buf:    make([]pixarray.Pixel, size),
		clock:  opts.Clock,
		rng:    opts.Rand,
		mode:   strip.Mode(),
		logger: opts.Logger,
	}, nil
}

// NewStripRange returns a range covering the whole strip.
func NewStripRange(strip *pixarray.Strip, opts Options) (*Range, error) {
	return NewRange(strip, 0, strip.NumPixels(), opts)
}

func (r *Range) Offset() int {
	return r.offset
}

func (r *Range) Size() int {
	return r.size
}

func (r *Range) ownsStrip() bool {
	return r.offset == 0 && r.size == r.strip.NumPixels()
}

// Add starts an effect. It returns false, and drops the effect, when the
// range already runs as many effects of that kind as it can hold.
func (r *Range) Add(s Setup) bool {
	var ok bool
	switch s := s.(type) {
	case SnakeSetup:
		ok = r.addSnake(s)
	case PulseSetup:
		ok = r.addPulse(s)
	case RandomSetup:
		ok = r.addRandom(s)
	}
	if !ok && r.mode == pixarray.DebugPrint {
		r.logger.Infow("effect dropped, range full", "offset", r.offset, "setup", fmt.Sprintf("%T", s))
	}
	return ok
}

func (r *Range) addSnake(s SnakeSetup) bool {
	if r.numSnakes == MaxSnakes {
		return false
	}
	head := s.Offset % r.size
	if head < 0 {
		head += r.size
	}
	r.snakes[r.numSnakes] = snake{setup: s, keeper: beat.NewKeeper(r.clock, s.Period), head: head}
	r.numSnakes++
	return true
}

func (r *Range) addPulse(s PulseSetup) bool {
	if r.numPulses == MaxPulses {
		return false
	}
	r.pulses[r.numPulses] = pulse{setup: s, keeper: beat.NewKeeper(r.clock, s.Period)}
	r.numPulses++
	return true
}

func (r *Range) addRandom(s RandomSetup) bool {
	if r.numRandoms == MaxRandoms {
		return false
	}
	if s.Count > MaxRandomPixels {
		s.Count = MaxRandomPixels
	}
	if s.Count < 0 {
		s.Count = 0
	}
	r.randoms[r.numRandoms] = random{setup: s, keeper: beat.NewKeeper(r.clock, s.Period)}
	r.numRandoms++
	return true
}

// Empty reports whether no effects are running.
func (r *Range) Empty() bool {
	return r.numSnakes == 0 && r.numPulses == 0 && r.numRandoms == 0
}

// Set writes one pixel of the range through to the strip without showing it.
func (r *Range) Set(i int, p pixarray.Pixel) {
	r.buf[i] = p
	r.strip.Set(r.offset+i, p)
}

// Clear stops all effects and blacks out the range.
func (r *Range) Clear() error {
	r.snakes = [MaxSnakes]snake{}
	r.numSnakes = 0
	r.pulses = [MaxPulses]pulse{}
	r.numPulses = 0
	r.randoms = [MaxRandoms]random{}
	r.numRandoms = 0
	for i := range r.buf {
		r.buf[i] = pixarray.Black
	}
	if r.ownsStrip() {
		return r.strip.Clear()
	}
	for i := range r.buf {
		r.strip.Set(r.offset+i, pixarray.Black)
	}
	return r.strip.Show()
}

// Update advances every effect by the beats that have passed and, if any
// had, recomposes the range and shows the strip. It reports whether it did.
func (r *Range) Update() (bool, error) {
	if !r.poll() {
		return false, nil
	}
	r.advance()
	r.compose()
	for i, p := range r.buf {
		r.strip.Set(r.offset+i, p)
	}
	if r.mode == pixarray.DebugPrint {
		r.logger.Infow("range updated", "offset", r.offset, "size", r.size)
	}
	return true, r.strip.Show()
}

// poll collects beats from every keeper; all of them are polled even once
// one has reported beats.
func (r *Range) poll() bool {
	changed := false
	for i := 0; i < r.numSnakes; i++ {
		s := &r.snakes[i]
		s.beats = s.keeper.Poll()
		changed = changed || s.beats > 0
	}
	for i := 0; i < r.numPulses; i++ {
		p := &r.pulses[i]
		p.beats = p.keeper.Poll()
		changed = changed || p.beats > 0
	}
	for i := 0; i < r.numRandoms; i++ {
		rd := &r.randoms[i]
		if rd.setup.Count == 0 {
			rd.beats = 0
			continue
		}
		rd.beats = rd.keeper.Poll()
		changed = changed || rd.beats > 0
	}
	return changed
}

func (r *Range) advance() {
	n := r.size
	for i := 0; i < r.numSnakes; i++ {
		s := &r.snakes[i]
		step := int(s.beats % uint32(n))
		if s.setup.Direction == CCW {
			s.head = (s.head - step + n) % n
		} else {
			s.head = (s.head + step) % n
		}
	}
	for i := 0; i < r.numPulses; i++ {
		p := &r.pulses[i]
		p.level = (p.level + p.beats) % 2
	}
	for i := 0; i < r.numRandoms; i++ {
		rd := &r.randoms[i]
		for b := uint32(0); b < rd.beats; b++ {
			px := r.rng.Intn(n)
			if rd.cursor == rd.n {
				rd.pixels[rd.n] = px
				rd.n++
			} else {
				rd.pixels[rd.cursor] = px
			}
			rd.cursor = (rd.cursor + 1) % rd.setup.Count
		}
	}
}

// distance is how far pixel i trails behind head when moving in dir.
func (r *Range) distance(i, head int, dir Direction) int {
	if dir == CCW {
		if i >= head {
			return i - head
		}
		return r.size + i - head
	}
	if i <= head {
		return head - i
	}
	return r.size + head - i
}

func (r *Range) snakeGamma(s *snake, i int) float64 {
	d := r.distance(i, s.head, s.setup.Direction)
	if d >= s.setup.Length {
		return 0
	}
	if r.size <= 1 {
		return 1
	}
	return 1 - s.setup.FadeFactor*float64(d)/float64(r.size-1)
}

// compose recomputes the buffer from black: snakes, then the pulse, then
// the random pixels, which overwrite whatever is below them. A random
// effect paints its background even while its ring is empty.
func (r *Range) compose() {
	for i := range r.buf {
		c := pixarray.Black
		for j := 0; j < r.numSnakes; j++ {
			s := &r.snakes[j]
			if g := r.snakeGamma(s, i); g != 0 {
				c.Add(s.setup.Color, g)
			}
		}
		for j := 0; j < r.numPulses; j++ {
			p := &r.pulses[j]
			if p.level != 0 {
				c.Add(p.setup.Color, 1)
			}
		}
		for j := 0; j < r.numRandoms; j++ {
			rd := &r.randoms[j]
			if rd.lit(i) {
				c = rd.setup.Color
			} else {
				c = rd.setup.Background
			}
		}
		r.buf[i] = c
	}
}
