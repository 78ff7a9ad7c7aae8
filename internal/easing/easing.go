// Package easing maps elapsed time onto normalized animation progress.
package easing

import (
	"math"
	"time"
)

// Progress returns the linear progress of elapsed over duration, clamped to
// [0,1], together with its cubic ease-out. A non-positive duration counts as
// already complete.
func Progress(elapsed, duration time.Duration) (progress, eased float64) {
	if duration <= 0 {
		return 1, 1
	}
	progress = clamp01(float64(elapsed) / float64(duration))
	return progress, EaseOutCubic(progress)
}

// EaseOutCubic is 1-(1-t)^3 with t clamped to [0,1].
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}

// Lerp interpolates from a to b by t without clamping.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 limits v to [0, 1]; NaN maps to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}
