package animation

import (
	"image/color"
	"math"
)

var (
	gradientStart = color.NRGBA{R: 52, G: 152, B: 219, A: 255}
	gradientMid   = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	gradientEnd   = color.NRGBA{R: 255, G: 231, B: 60, A: 255}
)

// ProgressColor maps elapsed percent (0..100) onto the blue, yellow, warm
// gradient used by the clock. Out-of-range values are clamped.
func ProgressColor(percent float64) color.NRGBA {
	progress := clampUnit(percent / 100)
	if progress < 0.5 {
		return lerp(gradientStart, gradientMid, progress*2)
	}
	return lerp(gradientMid, gradientEnd, (progress-0.5)*2)
}

// GlowRadius grows linearly with progress up to maxRadius.
func GlowRadius(percent float64, maxRadius float32) float32 {
	return float32(clampUnit(percent/100)) * maxRadius
}

func lerp(from, to color.NRGBA, ratio float64) color.NRGBA {
	channel := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*ratio))
	}
	return color.NRGBA{
		R: channel(from.R, to.R),
		G: channel(from.G, to.G),
		B: channel(from.B, to.B),
		A: 255,
	}
}

func clampUnit(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
