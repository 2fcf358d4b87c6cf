package reconstruct

import (
	"reflect"
	"testing"

	"codeclash/internal/graph"
	"codeclash/internal/models"
)

func TestReconstructVerticalChain(t *testing.T) {
	blocks := []models.Block{
		{ID: 1, Text: "x = 1", X: 10, Y: 10},
		{ID: 2, Text: "y = 2", X: 10, Y: 70},
		{ID: 3, Text: "print(x + y)", X: 10, Y: 130},
	}
	g := graph.New().
		Connect(1, models.SideBottom, 2).
		Connect(2, models.SideBottom, 3)

	r := Reconstruct(blocks, g)

	want := []string{"x = 1", "y = 2", "print(x + y)"}
	if !reflect.DeepEqual(r.LineTexts(), want) {
		t.Errorf("LineTexts = %v, want %v", r.LineTexts(), want)
	}
	if r.Text != "x = 1\ny = 2\nprint(x + y)" {
		t.Errorf("Text = %q", r.Text)
	}
}

func TestReconstructDropsIsolatedBlocks(t *testing.T) {
	blocks := []models.Block{
		{ID: 1, Text: "a = 1", X: 0, Y: 0},
		{ID: 2, Text: "b = 2", X: 0, Y: 60},
		{ID: 3, Text: "stray", X: 400, Y: 0},
	}
	g := graph.New().Connect(1, models.SideBottom, 2)

	r := Reconstruct(blocks, g)
	if len(r.Lines) != 2 {
		t.Fatalf("got %d lines, want 2 (isolated block dropped)", len(r.Lines))
	}
	for _, line := range r.Lines {
		for _, id := range line.BlockIDs {
			if id == 3 {
				t.Error("isolated block leaked into the program")
			}
		}
	}
}

func TestReconstructHorizontalRun(t *testing.T) {
	blocks := []models.Block{
		{ID: 1, Text: "total =", X: 0, Y: 0},
		{ID: 2, Text: "price * count", X: 200, Y: 0},
	}
	g := graph.New().Connect(1, models.SideRight, 2)

	r := Reconstruct(blocks, g)
	if len(r.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(r.Lines))
	}
	// Left/right connected blocks concatenate without a separator.
	if r.Lines[0].Text != "total =price * count" {
		t.Errorf("line = %q", r.Lines[0].Text)
	}
	if !reflect.DeepEqual(r.Lines[0].BlockIDs, []int{1, 2}) {
		t.Errorf("BlockIDs = %v, want [1 2]", r.Lines[0].BlockIDs)
	}
}

func TestReconstructComponentOrder(t *testing.T) {
	// Two components; the lower one on the canvas comes second even
	// though its ids are smaller.
	blocks := []models.Block{
		{ID: 1, Text: "late = 1", X: 0, Y: 500},
		{ID: 2, Text: "later = 2", X: 0, Y: 560},
		{ID: 3, Text: "first = 1", X: 0, Y: 0},
		{ID: 4, Text: "second = 2", X: 0, Y: 60},
	}
	g := graph.New().
		Connect(1, models.SideBottom, 2).
		Connect(3, models.SideBottom, 4)

	r := Reconstruct(blocks, g)
	want := []string{"first = 1", "second = 2", "late = 1", "later = 2"}
	if !reflect.DeepEqual(r.LineTexts(), want) {
		t.Errorf("LineTexts = %v, want %v", r.LineTexts(), want)
	}
	if r.Text != "first = 1\nsecond = 2\n\nlate = 1\nlater = 2" {
		t.Errorf("Text = %q", r.Text)
	}
}

func TestReconstructDeterministic(t *testing.T) {
	blocks := []models.Block{
		{ID: 5, Text: "a", X: 30, Y: 30},
		{ID: 6, Text: "b", X: 30, Y: 90},
		{ID: 7, Text: "c", X: 30, Y: 150},
	}
	g := graph.New().
		Connect(5, models.SideBottom, 6).
		Connect(6, models.SideBottom, 7)

	first := Reconstruct(blocks, g)
	for i := 0; i < 5; i++ {
		again := Reconstruct(blocks, g)
		if !reflect.DeepEqual(again, first) {
			t.Fatal("Reconstruct is not deterministic")
		}
	}
}

func TestOwnership(t *testing.T) {
	blocks := []models.Block{
		{ID: 1, Text: "x = 1", X: 0, Y: 0},
		{ID: 2, Text: "y = 2", X: 0, Y: 60},
	}
	g := graph.New().Connect(1, models.SideBottom, 2)

	own := Reconstruct(blocks, g).Ownership()
	if !reflect.DeepEqual(own[0], []int{1}) || !reflect.DeepEqual(own[1], []int{2}) {
		t.Errorf("Ownership = %v", own)
	}
}
