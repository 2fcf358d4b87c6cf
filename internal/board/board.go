// Package board implements the placement and snap engine: the drag
// lifecycle, socket matching, connection commit/break, and the
// debounced re-analysis scheduling around board mutations.
package board

import (
	"codeclash/internal/geometry"
	"codeclash/internal/graph"
	"codeclash/internal/models"
)

// Snap tuning at base scale. The break threshold sits below the snap
// threshold so a snapped pair doesn't chatter at the boundary.
const (
	SnapThreshold  = 12.0
	BreakThreshold = 8.0
)

// Board is one immutable snapshot of the puzzle state. Mutating
// operations return a fresh Board; observers never see a half-applied
// change.
type Board struct {
	Blocks []models.Block
	Graph  graph.Graph
	Scale  float64
}

// New builds a board snapshot at the given scale.
func New(blocks []models.Block, g graph.Graph, scale float64) Board {
	if scale <= 0 {
		scale = 1
	}
	return Board{Blocks: blocks, Graph: g, Scale: scale}
}

// Block finds a block by id.
func (b Board) Block(id int) (models.Block, bool) {
	for _, blk := range b.Blocks {
		if blk.ID == id {
			return blk, true
		}
	}
	return models.Block{}, false
}

// WithBlockAt returns a new board with one block repositioned.
func (b Board) WithBlockAt(id int, p models.Point) Board {
	blocks := make([]models.Block, len(b.Blocks))
	copy(blocks, b.Blocks)
	for i := range blocks {
		if blocks[i].ID == id {
			blocks[i].X = p.X
			blocks[i].Y = p.Y
			break
		}
	}
	return Board{Blocks: blocks, Graph: b.Graph, Scale: b.Scale}
}

// WithGraph returns a new board with a replaced connection graph.
func (b Board) WithGraph(g graph.Graph) Board {
	return Board{Blocks: b.Blocks, Graph: g, Scale: b.Scale}
}

// SnapCandidate is the best socket pairing found for a moving block.
type SnapCandidate struct {
	MovingID   int
	MovingSide models.Side
	TargetID   int
	TargetSide models.Side
	Distance   float64
	// Align is the position the moving block must take so both sockets
	// coincide exactly.
	Align models.Point
}

// FindBestSnap scans every other block and every side for the closest
// opposing-socket pairing within the snap threshold. Sockets already
// occupied in the graph are not candidates. Ties go to the smallest
// distance; equal distances resolve to the lowest target id for
// determinism.
func FindBestSnap(b Board, movingID int) (SnapCandidate, bool) {
	moving, ok := b.Block(movingID)
	if !ok {
		return SnapCandidate{}, false
	}

	threshold := SnapThreshold * b.Scale
	best := SnapCandidate{Distance: threshold + 1}
	found := false

	for _, candidate := range b.Blocks {
		if candidate.ID == movingID {
			continue
		}
		for _, side := range models.Sides {
			opp := side.Opposite()
			if _, taken := b.Graph.Neighbor(movingID, side); taken {
				continue
			}
			if n, taken := b.Graph.Neighbor(candidate.ID, opp); taken && n != movingID {
				continue
			}

			target := geometry.Socket(candidate, opp, b.Scale)
			d := geometry.Distance(geometry.Socket(moving, side, b.Scale), target)
			if d > threshold {
				continue
			}
			if !found || d < best.Distance || (d == best.Distance && candidate.ID < best.TargetID) {
				best = SnapCandidate{
					MovingID:   movingID,
					MovingSide: side,
					TargetID:   candidate.ID,
					TargetSide: opp,
					Distance:   d,
					Align:      geometry.AlignTo(moving, side, target, b.Scale),
				}
				found = true
			}
		}
	}

	return best, found
}

// BreakStretched removes every connection of the block whose live
// socket distance now exceeds the break threshold. Both ends drop the
// edge. Returns the (possibly unchanged) board.
func BreakStretched(b Board, id int) Board {
	blk, ok := b.Block(id)
	if !ok {
		return b
	}
	limit := BreakThreshold * b.Scale

	g := b.Graph
	for _, side := range models.Sides {
		n, connected := g.Neighbor(id, side)
		if !connected {
			continue
		}
		other, ok := b.Block(n)
		if !ok {
			continue
		}
		d := geometry.Distance(
			geometry.Socket(blk, side, b.Scale),
			geometry.Socket(other, side.Opposite(), b.Scale),
		)
		if d > limit {
			g = g.Disconnect(id, side)
		}
	}
	return b.WithGraph(g)
}
