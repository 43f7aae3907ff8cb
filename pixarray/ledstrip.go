package pixarray

import (
	"fmt"
	"strings"
)

// Device is the hardware side of a strip. SetPixelColor only stages a
// colour (0xWWRRGGBB); nothing reaches the LEDs until Show.
type Device interface {
	Begin() error
	NumPixels() int
	SetPixelColor(i int, c uint32)
	Show() error
}

type DebugMode int

const (
	DebugNone DebugMode = iota
	// DebugPrint logs strip activity.
	DebugPrint
	// DebugDryRun computes everything but never transmits.
	DebugDryRun
)

var debugModeNames = []string{"none", "print", "dryrun"}

func (m DebugMode) String() string {
	if m < 0 || int(m) >= len(debugModeNames) {
		return fmt.Sprintf("DebugMode(%d)", int(m))
	}
	return debugModeNames[m]
}

func ParseDebugMode(s string) (DebugMode, error) {
	for i, n := range debugModeNames {
		if strings.EqualFold(s, n) {
			return DebugMode(i), nil
		}
	}
	return DebugNone, fmt.Errorf("unknown debug mode '%s', want one of %s", s, strings.Join(debugModeNames, ", "))
}
