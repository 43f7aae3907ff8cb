package beat

import (
	"time"
)

// Timer is a one-shot deadline on a Clock.
type Timer struct {
	clock    Clock
	start    uint32
	duration uint32
}

func NewTimer(clock Clock, d time.Duration) Timer {
	if clock == nil {
		clock = System
	}
	t := Timer{clock: clock}
	t.Reset(d)
	return t
}

func (t *Timer) Reset(d time.Duration) {
	t.start = t.clock.Millis()
	t.duration = toMillis(d)
}

// Elapsed reports whether the duration has passed since the last Reset.
// Unsigned subtraction keeps this correct across a clock wrap.
func (t *Timer) Elapsed() bool {
	return t.clock.Millis()-t.start >= t.duration
}
