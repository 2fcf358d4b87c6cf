package board

import (
	"errors"
	"testing"
	"time"

	"codeclash/internal/geometry"
	"codeclash/internal/graph"
	"codeclash/internal/models"
)

// stack builds a board with block 1 at the origin and block 2 gap
// pixels below block 1's bottom edge.
func stack(gap float64) Board {
	l := geometry.ComputeLayout("x = 1", 1.0)
	blocks := []models.Block{
		{ID: 1, Text: "x = 1", X: 0, Y: 0},
		{ID: 2, Text: "y = 2", X: 0, Y: l.Height + gap},
	}
	return New(blocks, graph.New(), 1.0)
}

func TestFindBestSnapWithinThreshold(t *testing.T) {
	b := stack(4)

	cand, ok := FindBestSnap(b, 2)
	if !ok {
		t.Fatal("expected a snap candidate")
	}
	if cand.MovingID != 2 || cand.MovingSide != models.SideTop {
		t.Errorf("moving = %d/%v, want 2/top", cand.MovingID, cand.MovingSide)
	}
	if cand.TargetID != 1 || cand.TargetSide != models.SideBottom {
		t.Errorf("target = %d/%v, want 1/bottom", cand.TargetID, cand.TargetSide)
	}
	if cand.Distance != 4 {
		t.Errorf("Distance = %v, want 4", cand.Distance)
	}

	// Align must bring the sockets into exact coincidence.
	aligned := b.WithBlockAt(2, cand.Align)
	blk, _ := aligned.Block(2)
	d := geometry.Distance(
		geometry.Socket(blk, models.SideTop, 1.0),
		geometry.Socket(mustBlock(t, b, 1), models.SideBottom, 1.0),
	)
	if d > 1e-9 {
		t.Errorf("socket distance after align = %v, want 0", d)
	}
}

func TestFindBestSnapBeyondThreshold(t *testing.T) {
	b := stack(SnapThreshold + 5)
	if _, ok := FindBestSnap(b, 2); ok {
		t.Error("snap found beyond threshold")
	}
}

func TestFindBestSnapSkipsOccupiedSockets(t *testing.T) {
	b := stack(4)
	// A third block already owns block 1's bottom socket.
	b.Blocks = append(b.Blocks, models.Block{ID: 3, Text: "z = 3", X: 700, Y: 700})
	b = b.WithGraph(b.Graph.Connect(1, models.SideBottom, 3))

	if cand, ok := FindBestSnap(b, 2); ok && cand.TargetID == 1 && cand.TargetSide == models.SideBottom {
		t.Errorf("snap claimed an occupied socket: %+v", cand)
	}
}

func TestFindBestSnapUnknownBlock(t *testing.T) {
	b := stack(4)
	if _, ok := FindBestSnap(b, 99); ok {
		t.Error("snap found for a block not on the board")
	}
}

func TestBreakStretched(t *testing.T) {
	b := stack(0)
	b = b.WithGraph(b.Graph.Connect(2, models.SideTop, 1))

	// Aligned blocks stay connected.
	kept := BreakStretched(b, 2)
	if !kept.Graph.Connected(1, 2) {
		t.Error("aligned connection broken")
	}

	// Dragging block 2 away stretches the edge past the limit.
	blk := mustBlock(t, b, 2)
	moved := b.WithBlockAt(2, models.Point{X: blk.X, Y: blk.Y + BreakThreshold + 5})
	broken := BreakStretched(moved, 2)
	if broken.Graph.Connected(1, 2) {
		t.Error("stretched connection survived")
	}
	if broken.Graph.Degree(1) != 0 {
		t.Error("stale edge left on the other end")
	}
}

func TestGestureLifecycle(t *testing.T) {
	b := stack(40)

	blk := mustBlock(t, b, 2)
	g, err := BeginDrag(b, 2, blk.X+10, blk.Y+10)
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}

	// Drag block 2 up until its top socket is within snap range.
	next, preview := g.Move(b, blk.X+10, blk.Y+10-36)
	if preview == nil {
		t.Fatal("expected a snap preview")
	}
	if preview.TargetID != 1 {
		t.Errorf("preview target = %d, want 1", preview.TargetID)
	}

	final, anim := g.Release(next)
	if !final.Graph.Connected(1, 2) {
		t.Error("release did not commit the previewed snap")
	}
	if anim == nil {
		t.Fatal("expected a snap animation")
	}
	if anim.BlockID != 2 || anim.To != preview.Align {
		t.Errorf("animation = %+v, want slide of block 2 to %+v", anim, preview.Align)
	}

	// Final position is the aligned one.
	got := mustBlock(t, final, 2)
	if got.Pos() != preview.Align {
		t.Errorf("final position = %+v, want %+v", got.Pos(), preview.Align)
	}
}

func TestGestureReleaseWithoutSnap(t *testing.T) {
	b := stack(200)

	g, err := BeginDrag(b, 2, 0, 0)
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	next, preview := g.Move(b, 5, 5)
	if preview != nil {
		t.Fatalf("unexpected preview at distance: %+v", preview)
	}

	final, anim := g.Release(next)
	if anim != nil {
		t.Errorf("animation without a snap: %+v", anim)
	}
	if len(final.Graph) != 0 {
		t.Errorf("edges appeared without a snap: %v", final.Graph)
	}
}

func TestBeginDragUnknownBlock(t *testing.T) {
	b := stack(40)
	if _, err := BeginDrag(b, 42, 0, 0); !errors.Is(err, ErrUnknownBlock) {
		t.Errorf("err = %v, want ErrUnknownBlock", err)
	}
}

func TestAnimationAt(t *testing.T) {
	a := NewAnimation(1, models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 50})

	if got := a.At(0); got != (models.Point{X: 0, Y: 0}) {
		t.Errorf("At(0) = %+v, want start", got)
	}
	if got := a.At(a.Duration); got != (models.Point{X: 100, Y: 50}) {
		t.Errorf("At(duration) = %+v, want end", got)
	}
	if got := a.At(a.Duration * 2); got != (models.Point{X: 100, Y: 50}) {
		t.Errorf("At(past) = %+v, want end", got)
	}

	mid := a.At(a.Duration / 2)
	if mid.X <= 0 || mid.X >= 100 {
		t.Errorf("At(half).X = %v, want strictly between 0 and 100", mid.X)
	}

	if a.Done(a.Duration - time.Millisecond) {
		t.Error("Done before the duration elapsed")
	}
	if !a.Done(a.Duration) {
		t.Error("not Done at the duration")
	}
}

func TestRecomputerDebounce(t *testing.T) {
	r := NewRecomputer(20 * time.Millisecond)
	fired := make(chan struct{}, 4)

	// Rapid invalidations collapse into one run.
	for i := 0; i < 4; i++ {
		r.Invalidate(func() { fired <- struct{}{} })
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("debounced run never fired")
	}
	select {
	case <-fired:
		t.Error("multiple runs fired for one settle window")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestRecomputerCancel(t *testing.T) {
	r := NewRecomputer(10 * time.Millisecond)
	fired := make(chan struct{}, 1)

	r.Invalidate(func() { fired <- struct{}{} })
	r.Cancel()

	select {
	case <-fired:
		t.Error("cancelled run fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecomputerFlush(t *testing.T) {
	r := NewRecomputer(time.Hour)
	stale := make(chan struct{}, 1)
	r.Invalidate(func() { stale <- struct{}{} })

	ran := false
	r.Flush(func() { ran = true })
	if !ran {
		t.Error("Flush did not run immediately")
	}

	select {
	case <-stale:
		t.Error("stale pending run survived Flush")
	case <-time.After(20 * time.Millisecond):
	}
}

func mustBlock(t *testing.T, b Board, id int) models.Block {
	t.Helper()
	blk, ok := b.Block(id)
	if !ok {
		t.Fatalf("block %d not on board", id)
	}
	return blk
}
