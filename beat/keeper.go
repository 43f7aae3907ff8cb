// Package beat quantises the passage of time into whole beats of a fixed
// period, so that effects advance in discrete steps however irregularly they
// are polled.
package beat

import (
	"time"
)

// Keeper reports how many whole periods have elapsed since it was reset,
// net of the beats it has already reported. A zero period disables it.
type Keeper struct {
	clock    Clock
	period   uint32
	start    uint32
	reported uint32
}

func NewKeeper(clock Clock, period time.Duration) Keeper {
	if clock == nil {
		clock = System
	}
	k := Keeper{clock: clock}
	k.Reset(period)
	return k
}

func toMillis(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(d.Milliseconds())
}

func (k *Keeper) Reset(period time.Duration) {
	if k.clock == nil {
		k.clock = System
	}
	k.period = toMillis(period)
	k.start = k.clock.Millis()
	k.reported = 0
}

func (k *Keeper) Period() time.Duration {
	return time.Duration(k.period) * time.Millisecond
}

// Poll returns the number of beats since the previous call.
func (k *Keeper) Poll() uint32 {
	if k.period == 0 {
		return 0
	}
	now := k.clock.Millis()
	if now < k.start {
		// The clock wrapped; start counting again from here.
		k.Reset(k.Period())
		return 0
	}
	total := (now - k.start) / k.period
	beats := total - k.reported
	k.reported = total
	return beats
}
