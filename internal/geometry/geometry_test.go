package geometry

import (
	"math"
	"strings"
	"testing"

	"codeclash/internal/models"
)

func TestComputeLayoutDeterministic(t *testing.T) {
	a := ComputeLayout("print('hello world')", 1.0)
	b := ComputeLayout("print('hello world')", 1.0)

	if a.Width != b.Width || a.Height != b.Height || len(a.Lines) != len(b.Lines) {
		t.Errorf("same text and scale produced different layouts: %+v vs %+v", a, b)
	}
}

func TestComputeLayoutBounds(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"short", "x = 1"},
		{"long", strings.Repeat("for i in range(10): ", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.text, 1.0)
			if l.Width < MinBlockWidth || l.Width > MaxBlockWidth {
				t.Errorf("width %v outside [%v, %v]", l.Width, MinBlockWidth, MaxBlockWidth)
			}
			if len(l.Lines) < 1 {
				t.Error("layout must have at least one line")
			}
			wantHeight := 2*BasePadding + float64(len(l.Lines))*BaseLineHeight
			if l.Height != wantHeight {
				t.Errorf("height = %v, want %v for %d lines", l.Height, wantHeight, len(l.Lines))
			}
		})
	}
}

func TestComputeLayoutScale(t *testing.T) {
	base := ComputeLayout("total = price * count", 1.0)
	doubled := ComputeLayout("total = price * count", 2.0)

	if doubled.Width != base.Width*2 {
		t.Errorf("doubled width = %v, want %v", doubled.Width, base.Width*2)
	}
	if doubled.Height != base.Height*2 {
		t.Errorf("doubled height = %v, want %v", doubled.Height, base.Height*2)
	}
	if len(doubled.Lines) != len(base.Lines) {
		t.Errorf("scale changed line wrapping: %d vs %d lines", len(doubled.Lines), len(base.Lines))
	}

	// Non-positive scale falls back to 1.0.
	fallback := ComputeLayout("total = price * count", 0)
	if fallback.Width != base.Width {
		t.Errorf("zero scale width = %v, want %v", fallback.Width, base.Width)
	}
}

func TestWrapLongToken(t *testing.T) {
	long := strings.Repeat("a", 200)
	l := ComputeLayout(long, 1.0)
	if len(l.Lines) < 2 {
		t.Errorf("expected oversized token to wrap, got %d lines", len(l.Lines))
	}
	for i, line := range l.Lines {
		if line == "" && len(l.Lines) > 1 {
			t.Errorf("line %d is empty", i)
		}
	}
}

func TestSocketPositions(t *testing.T) {
	b := models.Block{ID: 1, Text: "x = 1", X: 100, Y: 50}
	l := ComputeLayout(b.Text, 1.0)

	tests := []struct {
		side models.Side
		want models.Point
	}{
		{models.SideTop, models.Point{X: 100 + l.Width/2, Y: 50}},
		{models.SideBottom, models.Point{X: 100 + l.Width/2, Y: 50 + l.Height}},
		{models.SideLeft, models.Point{X: 100, Y: 50 + l.Height/2}},
		{models.SideRight, models.Point{X: 100 + l.Width, Y: 50 + l.Height/2}},
	}

	for _, tt := range tests {
		got := Socket(b, tt.side, 1.0)
		if got != tt.want {
			t.Errorf("Socket(%v) = %+v, want %+v", tt.side, got, tt.want)
		}
	}

	all := Sockets(b, 1.0)
	if len(all) != 4 {
		t.Errorf("Sockets returned %d points, want 4", len(all))
	}
}

func TestAlignToExact(t *testing.T) {
	b := models.Block{ID: 2, Text: "print(x)", X: 300, Y: 200}
	target := models.Point{X: 140, Y: 90}

	for _, side := range models.Sides {
		pos := AlignTo(b, side, target, 1.0)
		moved := b
		moved.X, moved.Y = pos.X, pos.Y
		socket := Socket(moved, side, 1.0)
		if Distance(socket, target) > 1e-9 {
			t.Errorf("AlignTo(%v): socket %+v not at target %+v", side, socket, target)
		}
	}
}

func TestDistance(t *testing.T) {
	d := Distance(models.Point{X: 0, Y: 0}, models.Point{X: 3, Y: 4})
	if d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestOverlaps(t *testing.T) {
	a := models.Block{ID: 1, Text: "x = 1", X: 0, Y: 0}
	la := ComputeLayout(a.Text, 1.0)

	touching := models.Block{ID: 2, Text: "y = 2", X: la.Width + 10, Y: 0}
	if Overlaps(a, touching, 1.0, 0) {
		t.Error("separated blocks reported as overlapping")
	}
	if !Overlaps(a, touching, 1.0, 20) {
		t.Error("margin should make nearby blocks overlap")
	}

	inside := models.Block{ID: 3, Text: "z = 3", X: 10, Y: 5}
	if !Overlaps(a, inside, 1.0, 0) {
		t.Error("intersecting blocks reported as separate")
	}
}

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		t    float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{1, 1},
		{1.5, 1},
		{0.5, 0.875},
	}

	for _, tt := range tests {
		got := EaseOutCubic(tt.t)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	from := models.Point{X: 10, Y: 20}
	to := models.Point{X: 110, Y: 220}

	if got := Interpolate(from, to, 0); got != from {
		t.Errorf("Interpolate(t=0) = %+v, want %+v", got, from)
	}
	if got := Interpolate(from, to, 1); got != to {
		t.Errorf("Interpolate(t=1) = %+v, want %+v", got, to)
	}

	mid := Interpolate(from, to, 0.5)
	if mid.X <= from.X || mid.X >= to.X {
		t.Errorf("Interpolate(t=0.5).X = %v, want strictly between %v and %v", mid.X, from.X, to.X)
	}
}
