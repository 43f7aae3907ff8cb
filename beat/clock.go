package beat

import (
	"sync/atomic"
	"time"
)

// Clock is a free-running millisecond counter. It wraps around at 2^32 ms,
// roughly every 49.7 days.
type Clock interface {
	Millis() uint32
}

type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// System counts from process start.
var System Clock = NewSystemClock()

// ManualClock only moves when told to. Safe for use from several goroutines.
type ManualClock struct {
	now atomic.Uint32
}

func NewManualClock(start uint32) *ManualClock {
	c := &ManualClock{}
	c.now.Store(start)
	return c
}

func (c *ManualClock) Millis() uint32 {
	return c.now.Load()
}

func (c *ManualClock) Set(ms uint32) {
	c.now.Store(ms)
}

func (c *ManualClock) Advance(d time.Duration) {
	c.now.Add(uint32(d.Milliseconds()))
}
