package animation

import (
	"image/color"
	"time"
)

// DefaultConfig returns the completion flash timings.
func DefaultConfig() Config {
	return Config{
		FlashOn:    180 * time.Millisecond,
		FlashOff:   120 * time.Millisecond,
		FlashCount: 3,
	}
}

// WorkFlash is shown when a break ends.
func WorkFlash() FlashSpec {
	return FlashSpec{
		On:   color.NRGBA{R: 52, G: 152, B: 219, A: 200},
		Off:  color.NRGBA{A: 0},
		Rest: color.NRGBA{A: 0},
	}
}

// BreakFlash is shown when a work session completes.
func BreakFlash() FlashSpec {
	return FlashSpec{
		On:   color.NRGBA{R: 46, G: 204, B: 113, A: 200},
		Off:  color.NRGBA{A: 0},
		Rest: color.NRGBA{A: 0},
	}
}
