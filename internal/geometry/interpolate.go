package geometry

import "codeclash/internal/models"

// EaseOutCubic maps linear progress t in [0,1] to eased progress.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// Interpolate returns the eased position between from and to at
// progress t. The function is pure so any scheduler (timer, render
// loop, frame ticker) can drive it.
func Interpolate(from, to models.Point, t float64) models.Point {
	e := EaseOutCubic(t)
	return models.Point{
		X: from.X + (to.X-from.X)*e,
		Y: from.Y + (to.Y-from.Y)*e,
	}
}
