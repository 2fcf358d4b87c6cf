package hint

import (
	"fmt"

	"codeclash/internal/analyzer"
	"codeclash/internal/board"
	"codeclash/internal/geometry"
	"codeclash/internal/models"
	"codeclash/internal/reconstruct"
)

// fallbackOrigin is where a corrected block lands when no anchor
// exists at all (the first line itself is wrong).
var fallbackOrigin = models.Point{X: 48, Y: 48}

func reconstructBoard(b board.Board) reconstruct.Result {
	return reconstruct.Reconstruct(b.Blocks, b.Graph)
}

// autoFix corrects exactly one block: the one implicated by the first
// mismatch. Blocks verified correct before the mismatch never move.
func (e *Engine) autoFix(b board.Board) Result {
	rec := reconstructBoard(b)
	matched, mismatch := analyzer.Align(rec, e.canonical, e.spec)
	if mismatch == nil {
		return Result{Tier: TierAutoFix, Message: "Nothing to fix — the program is already correct.", Board: b}
	}

	verified := make(map[int]bool)
	for _, m := range matched {
		for _, id := range m.BlockIDs {
			verified[id] = true
		}
	}

	if mismatch.Type == analyzer.MismatchExtra {
		return e.parkExtra(b, mismatch)
	}

	correctID, ok := e.findCorrectBlock(b, mismatch.ExpectedIndex, verified)
	if !ok {
		// A malformed level can expect a line no block carries; say so
		// instead of guessing.
		return Result{
			Tier:    TierAutoFix,
			Message: fmt.Sprintf("No block on the board reads %q — the missing piece isn't here.", mismatch.ExpectedLine),
			Board:   b,
		}
	}

	wrongID := -1
	if len(mismatch.ActualBlockIDs) > 0 && mismatch.ActualBlockIDs[0] != correctID {
		wrongID = mismatch.ActualBlockIDs[0]
	}

	// Connectivity between the implicated pair must be read before
	// their edges are stripped.
	wrongTouchesCorrect := wrongID >= 0 && b.Graph.Connected(wrongID, correctID)

	anchorID, anchorCanon, hasAnchor := lastVerified(matched)

	g := b.Graph.DisconnectAll(correctID)
	if wrongID >= 0 {
		g = g.DisconnectAll(wrongID)
	}
	next := b.WithGraph(g)

	correctBlk, _ := next.Block(correctID)
	correctOld := correctBlk.Pos()

	var target models.Point
	if hasAnchor {
		side := models.SideBottom
		if sameRow(anchorCanon, mismatch.ExpectedIndex, analyzer.MergeRows(e.canonical, e.spec)) {
			side = models.SideRight
		}
		anchorBlk, _ := next.Block(anchorID)
		socket := geometry.Socket(anchorBlk, side, next.Scale)
		target = geometry.AlignTo(correctBlk, side.Opposite(), socket, next.Scale)
		next = next.WithGraph(next.Graph.Connect(anchorID, side, correctID))
	} else {
		target = fallbackOrigin
	}

	var anims []board.Animation
	next = next.WithBlockAt(correctID, target)
	anims = append(anims, board.NewAnimation(correctID, correctOld, target))

	// Push aside whatever unrelated, not-yet-correct block the landing
	// spot would overlap.
	next, displaceAnims := displaceOverlaps(next, correctID, verified, wrongID)
	anims = append(anims, displaceAnims...)

	highlight := []int{correctID}
	if wrongID >= 0 {
		highlight = append(highlight, wrongID)
		wrongBlk, _ := next.Block(wrongID)
		if wrongTouchesCorrect {
			// Swapping through an active edge would fight the very
			// connection we just placed; park the wrong block instead.
			parked := parkPosition(next, wrongID)
			next = next.WithBlockAt(wrongID, parked)
			anims = append(anims, board.NewAnimation(wrongID, wrongBlk.Pos(), parked))
		} else {
			next = next.WithBlockAt(wrongID, correctOld)
			anims = append(anims, board.NewAnimation(wrongID, wrongBlk.Pos(), correctOld))
		}
	}

	msg := fmt.Sprintf("Moved %q into place as line %d.", mismatch.ExpectedLine, mismatch.ExpectedIndex+1)
	if wrongID >= 0 {
		msg = fmt.Sprintf("Swapped out the block at line %d and moved %q into place.", mismatch.Index+1, mismatch.ExpectedLine)
	}

	return Result{
		Tier:         TierAutoFix,
		Message:      msg,
		HighlightIDs: highlight,
		Board:        next,
		Animations:   anims,
		Changed:      true,
	}
}

// parkExtra pulls a surplus block out of the chain and parks it in
// open space; it has no legitimate target line.
func (e *Engine) parkExtra(b board.Board, mismatch *analyzer.Mismatch) Result {
	if len(mismatch.ActualBlockIDs) == 0 {
		return Result{Tier: TierAutoFix, Message: "That line doesn't belong, but no block owns it.", Board: b}
	}
	extraID := mismatch.ActualBlockIDs[0]

	next := b.WithGraph(b.Graph.DisconnectAll(extraID))
	blk, _ := next.Block(extraID)
	parked := parkPosition(next, extraID)
	next = next.WithBlockAt(extraID, parked)

	return Result{
		Tier:         TierAutoFix,
		Message:      fmt.Sprintf("%q isn't part of this program — set it aside.", mismatch.ActualLine),
		HighlightIDs: []int{extraID},
		Board:        next,
		Animations:   []board.Animation{board.NewAnimation(extraID, blk.Pos(), parked)},
		Changed:      true,
	}
}

// findCorrectBlock locates the block that belongs at the canonical
// line: normalized text equality, never a block already verified in
// sequence (a duplicate text elsewhere must not be stolen from the
// correct prefix). Lowest id wins for determinism; real fragments beat
// distractors that happen to carry the same text.
func (e *Engine) findCorrectBlock(b board.Board, canonIdx int, verified map[int]bool) (int, bool) {
	if canonIdx < 0 || canonIdx >= len(e.canonical) {
		return 0, false
	}
	want := analyzer.Normalize(e.canonical[canonIdx])

	bestID := -1
	bestDistractor := true
	for _, blk := range b.Blocks {
		if verified[blk.ID] || analyzer.Normalize(blk.Text) != want {
			continue
		}
		if bestID == -1 || (bestDistractor && !blk.Distractor) ||
			(bestDistractor == blk.Distractor && blk.ID < bestID) {
			bestID = blk.ID
			bestDistractor = blk.Distractor
		}
	}
	return bestID, bestID >= 0
}

// lastVerified returns the anchor: the final block of the matched line
// immediately before the mismatch, plus the last canonical index that
// line covered.
func lastVerified(matched []analyzer.MatchedLine) (blockID, canonIdx int, ok bool) {
	for i := len(matched) - 1; i >= 0; i-- {
		m := matched[i]
		if len(m.BlockIDs) == 0 {
			continue
		}
		return m.BlockIDs[len(m.BlockIDs)-1], m.CanonicalStart + m.Absorbed - 1, true
	}
	return 0, 0, false
}

// sameRow reports whether two canonical indices merge onto one visual
// row.
func sameRow(a, b int, rows [][]int) bool {
	for _, row := range rows {
		inA, inB := false, false
		for _, idx := range row {
			if idx == a {
				inA = true
			}
			if idx == b {
				inB = true
			}
		}
		if inA || inB {
			return inA && inB
		}
	}
	return false
}

// displaceOverlaps nudges unrelated, not-yet-correct blocks off the
// landing spot: one block-width plus padding to the right.
func displaceOverlaps(b board.Board, movedID int, verified map[int]bool, wrongID int) (board.Board, []board.Animation) {
	moved, ok := b.Block(movedID)
	if !ok {
		return b, nil
	}

	var anims []board.Animation
	for _, other := range b.Blocks {
		if other.ID == movedID || other.ID == wrongID || verified[other.ID] {
			continue
		}
		if !geometry.Overlaps(moved, other, b.Scale, 0) {
			continue
		}
		l := geometry.ComputeLayout(other.Text, b.Scale)
		to := models.Point{X: other.X + l.Width + geometry.BasePadding*b.Scale, Y: other.Y}
		b = b.WithBlockAt(other.ID, to)
		anims = append(anims, board.NewAnimation(other.ID, other.Pos(), to))
	}
	return b, anims
}

// parkPosition finds open space below everything currently on the
// board.
func parkPosition(b board.Board, id int) models.Point {
	maxY := 0.0
	for _, blk := range b.Blocks {
		if blk.ID == id {
			continue
		}
		l := geometry.ComputeLayout(blk.Text, b.Scale)
		if bottom := blk.Y + l.Height; bottom > maxY {
			maxY = bottom
		}
	}
	return models.Point{X: fallbackOrigin.X, Y: maxY + 2*geometry.BasePadding*b.Scale}
}
