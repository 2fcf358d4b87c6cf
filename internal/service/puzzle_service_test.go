package service

import (
	"testing"
	"time"

	"codeclash/internal/models"
)

func TestBuildBoardMatesRowNeighbors(t *testing.T) {
	s := NewPuzzleService(nil, nil, nil, nil)
	level := &models.Level{
		ID:             7,
		Language:       "python",
		Sequence:       3,
		Difficulty:     "Easy",
		CanonicalLines: []string{"print(", "'hello')", "x = 1"},
	}
	attempt := &models.Attempt{ID: "attempt-1", LearnerID: 1, LevelID: 7}

	state := s.buildBoardState(level, attempt)
	if len(state.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(state.Blocks))
	}

	// "print(" and "'hello')" sit on one merged row, so their facing
	// horizontal sockets must mate.
	left := state.Blocks[1].Pattern.Left
	right := state.Blocks[0].Pattern.Right
	if left != right.Complement() {
		t.Errorf("merged-row left socket %v does not mate right socket %v", left, right)
	}
	if left == models.ShapeFlat {
		t.Error("merged-row left socket is flat, want tab or slot")
	}

	// A block that starts its own row keeps a flat left edge.
	if got := state.Blocks[2].Pattern.Left; got != models.ShapeFlat {
		t.Errorf("row-starting block left socket = %v, want flat", got)
	}
}

func twoLineLevel() *models.Level {
	return &models.Level{
		ID:             1,
		Language:       "python",
		Sequence:       1,
		Difficulty:     "Easy",
		CanonicalLines: []string{"x = 1", "print(x)"},
	}
}

func twoLineState(links []models.Link) *models.BoardState {
	return &models.BoardState{
		LearnerID: 9,
		LevelID:   1,
		AttemptID: "attempt-1",
		Blocks: []models.Block{
			{ID: 0, Text: "x = 1"},
			{ID: 1, Text: "print(x)", Y: 44},
		},
		Links: links,
	}
}

func waitForAnalysis(t *testing.T, s *PuzzleService, learnerID int64, settled func(*BoardAnalysis) bool) *BoardAnalysis {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var last *BoardAnalysis
	for time.Now().Before(deadline) {
		if a := s.cachedAnalysis(learnerID); a != nil {
			last = a
			if settled(a) {
				return a
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("analysis never settled, last = %+v", last)
	return nil
}

func TestScheduleAnalysisDebounces(t *testing.T) {
	s := NewPuzzleService(nil, nil, nil, nil)
	s.recomputeDelay = 20 * time.Millisecond
	level := twoLineLevel()

	scattered := twoLineState(nil)
	solved := twoLineState([]models.Link{{From: 0, Side: "bottom", To: 1}})

	// A burst of mutations: only the board standing when the timer
	// settles gets analyzed.
	s.scheduleAnalysis(9, scattered, level)
	s.scheduleAnalysis(9, scattered, level)
	s.scheduleAnalysis(9, solved, level)

	analysis := waitForAnalysis(t, s, 9, func(a *BoardAnalysis) bool { return a.Solved })
	if !analysis.Solved || analysis.MismatchType != "" {
		t.Errorf("settled analysis = %+v, want solved", analysis)
	}
}

func TestScheduleAnalysisReportsMismatch(t *testing.T) {
	s := NewPuzzleService(nil, nil, nil, nil)
	s.recomputeDelay = 5 * time.Millisecond
	level := twoLineLevel()

	// Chain in reverse order: print(x) above x = 1.
	inverted := twoLineState([]models.Link{{From: 1, Side: "bottom", To: 0}})
	s.scheduleAnalysis(3, inverted, level)

	analysis := waitForAnalysis(t, s, 3, func(a *BoardAnalysis) bool { return true })
	if analysis.Solved {
		t.Fatal("inverted board reported solved")
	}
	if analysis.MismatchType != "misplaced" {
		t.Errorf("mismatch type = %q, want misplaced", analysis.MismatchType)
	}
	if analysis.Line != 1 {
		t.Errorf("mismatch line = %d, want 1", analysis.Line)
	}
}

func TestDropAnalysisCancelsPending(t *testing.T) {
	s := NewPuzzleService(nil, nil, nil, nil)
	s.recomputeDelay = 20 * time.Millisecond
	level := twoLineLevel()

	s.scheduleAnalysis(5, twoLineState(nil), level)
	s.dropAnalysis(5)

	time.Sleep(80 * time.Millisecond)
	if a := s.cachedAnalysis(5); a != nil {
		t.Errorf("cancelled analysis still ran: %+v", a)
	}
}
