package geometry

import (
	"math"

	"codeclash/internal/models"
)

// Socket returns the attachment point at the midpoint of the given
// edge of the block, using the block's current position and layout.
func Socket(b models.Block, side models.Side, scale float64) models.Point {
	l := ComputeLayout(b.Text, scale)
	switch side {
	case models.SideTop:
		return models.Point{X: b.X + l.Width/2, Y: b.Y}
	case models.SideBottom:
		return models.Point{X: b.X + l.Width/2, Y: b.Y + l.Height}
	case models.SideLeft:
		return models.Point{X: b.X, Y: b.Y + l.Height/2}
	default:
		return models.Point{X: b.X + l.Width, Y: b.Y + l.Height/2}
	}
}

// Sockets returns all four attachment points of a block.
func Sockets(b models.Block, scale float64) map[models.Side]models.Point {
	points := make(map[models.Side]models.Point, 4)
	for _, side := range models.Sides {
		points[side] = Socket(b, side, scale)
	}
	return points
}

// Distance is the Euclidean distance between two canvas points.
func Distance(a, b models.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AlignTo returns the position a moving block must take so that its
// socket on the given side coincides exactly with the target point.
// Snap commits use this so alignment error becomes zero, not just
// "close enough".
func AlignTo(b models.Block, side models.Side, target models.Point, scale float64) models.Point {
	socket := Socket(b, side, scale)
	return models.Point{
		X: b.X + (target.X - socket.X),
		Y: b.Y + (target.Y - socket.Y),
	}
}

// Overlaps reports whether the bounding boxes of two blocks intersect,
// with an extra margin around the first block.
func Overlaps(a, b models.Block, scale, margin float64) bool {
	la := ComputeLayout(a.Text, scale)
	lb := ComputeLayout(b.Text, scale)
	return a.X-margin < b.X+lb.Width &&
		a.X+la.Width+margin > b.X &&
		a.Y-margin < b.Y+lb.Height &&
		a.Y+la.Height+margin > b.Y
}
