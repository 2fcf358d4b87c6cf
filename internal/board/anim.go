package board

import (
	"time"

	"codeclash/internal/geometry"
	"codeclash/internal/models"
)

// SnapAnimationDuration is the fixed length of the ease-out slide that
// follows a committed snap or an auto-fix relocation.
const SnapAnimationDuration = 180 * time.Millisecond

// Animation is a pure position-interpolation plan: a start snapshot
// captured once, a target, and a fixed duration. Any scheduler (timer,
// render loop, frame ticker) can drive it; it holds no timing state of
// its own and never blocks input handling.
type Animation struct {
	BlockID  int           `json:"blockId"`
	From     models.Point  `json:"from"`
	To       models.Point  `json:"to"`
	Duration time.Duration `json:"duration"`
}

// NewAnimation builds a snap/auto-fix slide for one block.
func NewAnimation(blockID int, from, to models.Point) Animation {
	return Animation{BlockID: blockID, From: from, To: to, Duration: SnapAnimationDuration}
}

// At returns the eased position after the given elapsed time. Past the
// duration it returns exactly To, so alignment error ends at zero.
func (a Animation) At(elapsed time.Duration) models.Point {
	if a.Duration <= 0 || elapsed >= a.Duration {
		return a.To
	}
	t := float64(elapsed) / float64(a.Duration)
	return geometry.Interpolate(a.From, a.To, t)
}

// Done reports whether the plan has fully played out.
func (a Animation) Done(elapsed time.Duration) bool {
	return elapsed >= a.Duration
}
