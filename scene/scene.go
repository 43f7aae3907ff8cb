// Package scene loads a static description of which effects run on which
// parts of a strip.
package scene

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Jon-Bright/ledbeat/beat"
	"github.com/Jon-Bright/ledbeat/effects"
	"github.com/Jon-Bright/ledbeat/pixarray"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is a "#rrggbb" hex colour with an optional white channel.
type Color struct {
	Hex   string `yaml:"hex"`
	White uint8  `yaml:"white"`
}

// UnmarshalYAML also accepts a bare hex string.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		c.Hex = n.Value
		return nil
	}
	type plain Color
	return n.Decode((*plain)(c))
}

func (c Color) Pixel() (pixarray.Pixel, error) {
	if c.Hex == "" {
		return pixarray.Pixel{W: c.White}, nil
	}
	cc, err := colorful.Hex(c.Hex)
	if err != nil {
		return pixarray.Black, fmt.Errorf("invalid colour '%s': %w", c.Hex, err)
	}
	r, g, b := cc.RGB255()
	return pixarray.Pixel{R: r, G: g, B: b, W: c.White}, nil
}

type Snake struct {
	Color     Color         `yaml:"color"`
	Offset    int           `yaml:"offset"`
	Direction string        `yaml:"direction"`
	Length    int           `yaml:"length"`
	Fade      float64       `yaml:"fade"`
	Period    time.Duration `yaml:"period"`
}

type Pulse struct {
	Color  Color         `yaml:"color"`
	Period time.Duration `yaml:"period"`
}

type Random struct {
	Color      Color         `yaml:"color"`
	Background Color         `yaml:"background"`
	Count      int           `yaml:"count"`
	Period     time.Duration `yaml:"period"`
}

type Range struct {
	Name   string   `yaml:"name"`
	Offset int      `yaml:"offset"`
	Size   int      `yaml:"size"`
	Snakes []Snake  `yaml:"snakes"`
	Pulses []Pulse  `yaml:"pulses"`
	Random []Random `yaml:"random"`
}

type Pattern struct {
	Kind     string        `yaml:"kind"`
	Color    Color         `yaml:"color"`
	Color2   Color         `yaml:"color2"`
	Period   time.Duration `yaml:"period"`
	MinGamma float64       `yaml:"min_gamma"`
}

type Indicator struct {
	// Board selects the built-in heartbeat and ignores Patterns.
	Board    bool      `yaml:"board"`
	Patterns []Pattern `yaml:"patterns"`
}

type Scene struct {
	Pixels    int        `yaml:"pixels"`
	Ranges    []Range    `yaml:"ranges"`
	Indicator *Indicator `yaml:"indicator"`
}

// NamedRange is a built range and the name it was given in the scene.
type NamedRange struct {
	Name  string
	Range *effects.Range
}

func Load(path string) (*Scene, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read scene: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Scene, error) {
	var s Scene
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(&s); err != nil {
		return nil, fmt.Errorf("couldn't parse scene: %w", err)
	}
	for i, r := range s.Ranges {
		if r.Name == "" {
			s.Ranges[i].Name = fmt.Sprintf("range%d", i)
		}
	}
	return &s, nil
}

func parseDirection(s string) (effects.Direction, error) {
	switch strings.ToLower(s) {
	case "", "cw":
		return effects.CW, nil
	case "ccw":
		return effects.CCW, nil
	}
	return effects.CW, fmt.Errorf("unknown direction '%s'", s)
}

func (r Range) setups() ([]effects.Setup, error) {
	var out []effects.Setup
	for _, sn := range r.Snakes {
		c, err := sn.Color.Pixel()
		if err != nil {
			return nil, err
		}
		dir, err := parseDirection(sn.Direction)
		if err != nil {
			return nil, err
		}
		out = append(out, effects.SnakeSetup{Color: c, Offset: sn.Offset, Direction: dir, Length: sn.Length, FadeFactor: sn.Fade, Period: sn.Period})
	}
	for _, p := range r.Pulses {
		c, err := p.Color.Pixel()
		if err != nil {
			return nil, err
		}
		out = append(out, effects.PulseSetup{Color: c, Period: p.Period})
	}
	for _, rd := range r.Random {
		c, err := rd.Color.Pixel()
		if err != nil {
			return nil, err
		}
		bg, err := rd.Background.Pixel()
		if err != nil {
			return nil, err
		}
		out = append(out, effects.RandomSetup{Color: c, Background: bg, Count: rd.Count, Period: rd.Period})
	}
	return out, nil
}

// Build creates the scene's ranges on strip and adds their effects. Effects
// beyond a range's capacity are dropped by the range.
func (s *Scene) Build(strip *pixarray.Strip, opts effects.Options) ([]NamedRange, error) {
	var out []NamedRange
	for _, rc := range s.Ranges {
		size := rc.Size
		if size == 0 {
			size = strip.NumPixels() - rc.Offset
		}
		r, err := effects.NewRange(strip, rc.Offset, size, opts)
		if err != nil {
			return nil, fmt.Errorf("range %s: %w", rc.Name, err)
		}
		setups, err := rc.setups()
		if err != nil {
			return nil, fmt.Errorf("range %s: %w", rc.Name, err)
		}
		for _, su := range setups {
			r.Add(su)
		}
		out = append(out, NamedRange{rc.Name, r})
	}
	return out, nil
}

func (p Pattern) build(clock beat.Clock) (*effects.Pattern, error) {
	c1, err := p.Color.Pixel()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(p.Kind) {
	case "solid":
		return effects.NewSolid(c1), nil
	case "blink":
		c2, err := p.Color2.Pixel()
		if err != nil {
			return nil, err
		}
		return effects.NewBlink(clock, c1, c2, p.Period), nil
	case "pulse":
		return effects.NewPulseWave(clock, p.Period, p.MinGamma), nil
	}
	return nil, fmt.Errorf("unknown pattern kind '%s'", p.Kind)
}

// BuildIndicator returns nil if the scene has no indicator.
func (s *Scene) BuildIndicator(strip *pixarray.Strip, opts effects.Options) (*effects.Indicator, error) {
	if s.Indicator == nil {
		return nil, nil
	}
	if s.Indicator.Board {
		return effects.NewBoardIndicator(strip, opts)
	}
	ind, err := effects.NewIndicator(strip, 0, opts)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = beat.System
	}
	for i, pc := range s.Indicator.Patterns {
		p, err := pc.build(clock)
		if err != nil {
			return nil, fmt.Errorf("indicator pattern %d: %w", i, err)
		}
		ind.AddPattern(p)
	}
	return ind, nil
}
