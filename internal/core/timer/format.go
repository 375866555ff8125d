package timer

import "fmt"

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not wrapped
// into hours, so 7200 renders as "120:00".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Percent returns elapsed/total as a percentage clamped to [0,100].
// A non-positive total yields 0.
func Percent(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	progress := float64(total-remaining) / float64(total) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
