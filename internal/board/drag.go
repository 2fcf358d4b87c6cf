package board

import (
	"errors"

	"codeclash/internal/models"
)

// ErrUnknownBlock is returned when a gesture names a block not on the
// board.
var ErrUnknownBlock = errors.New("unknown block")

// Gesture is the mutable context of one drag, from pointer-down to
// release. It is created per gesture and discarded afterwards; there
// is no ambient drag state. Only one gesture is active at a time
// (pointer capture upstream).
type Gesture struct {
	BlockID int

	// grab offset between the pointer and the block's corner, captured
	// once at pointer-down
	offsetX float64
	offsetY float64

	preview *SnapCandidate
}

// BeginDrag starts a gesture on the block under the pointer.
func BeginDrag(b Board, id int, pointerX, pointerY float64) (*Gesture, error) {
	blk, ok := b.Block(id)
	if !ok {
		return nil, ErrUnknownBlock
	}
	return &Gesture{
		BlockID: id,
		offsetX: pointerX - blk.X,
		offsetY: pointerY - blk.Y,
	}, nil
}

// Move applies one pointer-move event: the block follows the pointer,
// over-stretched connections break on both ends, and the best snap
// within threshold is previewed. A single gesture can therefore both
// unmake and remake edges.
func (g *Gesture) Move(b Board, pointerX, pointerY float64) (Board, *SnapCandidate) {
	next := b.WithBlockAt(g.BlockID, models.Point{
		X: pointerX - g.offsetX,
		Y: pointerY - g.offsetY,
	})
	next = BreakStretched(next, g.BlockID)

	if cand, ok := FindBestSnap(next, g.BlockID); ok {
		g.preview = &cand
	} else {
		g.preview = nil
	}
	return next, g.preview
}

// Preview returns the currently previewed snap, if any.
func (g *Gesture) Preview() *SnapCandidate {
	return g.preview
}

// Release ends the gesture. A previewed snap is committed: both graph
// directions are written and an ease-out animation moves the block so
// the sockets align exactly. Without a snap the block simply stays
// where it was dropped; there is no rollback.
func (g *Gesture) Release(b Board) (Board, *Animation) {
	cand := g.preview
	g.preview = nil
	if cand == nil {
		return b, nil
	}

	next := b.WithGraph(b.Graph.Connect(cand.MovingID, cand.MovingSide, cand.TargetID))

	blk, ok := next.Block(cand.MovingID)
	if !ok {
		return next, nil
	}
	anim := NewAnimation(cand.MovingID, blk.Pos(), cand.Align)

	// The final position is the aligned one; the animation only covers
	// the visual transition.
	next = next.WithBlockAt(cand.MovingID, cand.Align)
	return next, &anim
}
