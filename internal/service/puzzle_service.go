package service

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeclash/internal/analyzer"
	"codeclash/internal/board"
	"codeclash/internal/difficulty"
	"codeclash/internal/geometry"
	"codeclash/internal/graph"
	"codeclash/internal/interp"
	"codeclash/internal/lang"
	"codeclash/internal/models"
	"codeclash/internal/pattern"
	"codeclash/internal/reconstruct"
	"codeclash/internal/repository"
)

var (
	ErrLevelNotFound   = errors.New("level not found")
	ErrNoActiveAttempt = errors.New("no active attempt")
	ErrUnknownLanguage = errors.New("unsupported language")
)

// Scoring: a clean solve is worth the base; every hint eats into it.
const (
	basePoints        = 100
	hintPointsPenalty = 10
	minPoints         = 10
	coinsPerSolve     = 10
)

// blockColors is cycled over the blocks of a board.
var blockColors = []string{
	"#4a90e2", "#7b68ee", "#50c878", "#e2984a", "#e24a6f", "#46b5b0",
}

// PuzzleService drives the puzzle lifecycle: board construction, drag
// events, submission, and difficulty adaptation.
type PuzzleService struct {
	levelRepo   *repository.LevelRepository
	attemptRepo *repository.AttemptRepository
	boardRepo   *repository.BoardRepository
	learnerRepo *repository.LearnerRepository
	model       *difficulty.Model

	// per-learner locks serialize board mutations
	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	// background re-analysis, debounced per learner so rapid drags
	// don't analyze every intermediate board
	recomputeDelay time.Duration
	recomputers    map[int64]*board.Recomputer
	analyses       map[int64]*BoardAnalysis
}

// NewPuzzleService creates a new puzzle service
func NewPuzzleService(
	levelRepo *repository.LevelRepository,
	attemptRepo *repository.AttemptRepository,
	boardRepo *repository.BoardRepository,
	learnerRepo *repository.LearnerRepository,
) *PuzzleService {
	return &PuzzleService{
		levelRepo:      levelRepo,
		attemptRepo:    attemptRepo,
		boardRepo:      boardRepo,
		learnerRepo:    learnerRepo,
		model:          difficulty.NewModel(),
		locks:          make(map[int64]*sync.Mutex),
		recomputeDelay: board.DefaultRecomputeDelay,
		recomputers:    make(map[int64]*board.Recomputer),
		analyses:       make(map[int64]*BoardAnalysis),
	}
}

func (s *PuzzleService) learnerLock(learnerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[learnerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[learnerID] = lock
	}
	return lock
}

func (s *PuzzleService) recomputer(learnerID int64) *board.Recomputer {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recomputers[learnerID]
	if !ok {
		r = board.NewRecomputer(s.recomputeDelay)
		s.recomputers[learnerID] = r
	}
	return r
}

// scheduleAnalysis debounces a background diff of the board against
// the level. Only the settled board after a burst of mutations gets
// analyzed; the result is served with the next board snapshot.
func (s *PuzzleService) scheduleAnalysis(learnerID int64, state *models.BoardState, level *models.Level) {
	spec, ok := lang.Get(level.Language)
	if !ok {
		return
	}
	blocks := state.Blocks
	links := state.Links
	s.recomputer(learnerID).Invalidate(func() {
		rec := reconstruct.Reconstruct(blocks, graph.FromLinks(links))
		mismatch := analyzer.FirstMismatch(rec, level.CanonicalLines, spec)
		analysis := &BoardAnalysis{Solved: mismatch == nil}
		if mismatch != nil {
			analysis.MismatchType = string(mismatch.Type)
			analysis.Line = mismatch.Index + 1
			analysis.BlockIDs = mismatch.ActualBlockIDs
		}
		s.mu.Lock()
		s.analyses[learnerID] = analysis
		s.mu.Unlock()
	})
}

func (s *PuzzleService) cachedAnalysis(learnerID int64) *BoardAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyses[learnerID]
}

// dropAnalysis cancels any pending recomputation and forgets the
// cache; called whenever the board is replaced or the attempt closes.
func (s *PuzzleService) dropAnalysis(learnerID int64) {
	s.recomputer(learnerID).Cancel()
	s.mu.Lock()
	delete(s.analyses, learnerID)
	s.mu.Unlock()
}

// BoardSnapshot is the wire view of an in-flight board.
type BoardSnapshot struct {
	AttemptID string         `json:"attemptId"`
	LevelID   int64          `json:"levelId"`
	Blocks    []models.Block `json:"blocks"`
	Links     []models.Link  `json:"links"`
	// Analysis is the last settled background diff, when one has run.
	Analysis *BoardAnalysis `json:"analysis,omitempty"`
}

// BoardAnalysis is the cached diff of the board against the canonical
// program, recomputed in the background after drag activity settles.
type BoardAnalysis struct {
	Solved       bool   `json:"solved"`
	MismatchType string `json:"mismatchType,omitempty"`
	Line         int    `json:"line,omitempty"`
	BlockIDs     []int  `json:"blockIds,omitempty"`
}

// StartPuzzle opens (or resumes) an attempt at a level and returns the
// board. An unfinished attempt at the same level resumes with its
// saved board; otherwise a fresh scrambled board is built.
func (s *PuzzleService) StartPuzzle(learnerID, levelID int64) (*BoardSnapshot, error) {
	lock := s.learnerLock(learnerID)
	lock.Lock()
	defer lock.Unlock()

	level, err := s.levelRepo.GetLevelByID(levelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}

	attempt, err := s.attemptRepo.GetOpenAttempt(learnerID, levelID)
	if err != nil {
		return nil, err
	}
	if attempt != nil {
		state, err := s.boardRepo.GetBoardState(attempt.ID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			s.scheduleAnalysis(learnerID, state, level)
			return snapshotFromState(state), nil
		}
	}

	if attempt == nil {
		attempt, err = s.attemptRepo.CreateAttempt(uuid.New().String(), learnerID, levelID)
		if err != nil {
			return nil, err
		}
	}

	state := s.buildBoardState(level, attempt)
	if err := s.boardRepo.SaveBoardState(state); err != nil {
		return nil, err
	}
	s.dropAnalysis(learnerID)
	s.scheduleAnalysis(learnerID, state, level)
	return snapshotFromState(state), nil
}

// buildBoardState scrambles a level into a fresh board: one block per
// canonical line plus the distractors, seeded shapes, shuffled slots.
func (s *PuzzleService) buildBoardState(level *models.Level, attempt *models.Attempt) *models.BoardState {
	patterns := pattern.Generate(level.Sequence, level.Difficulty, len(level.CanonicalLines), len(level.Distractors))
	if spec, ok := lang.Get(level.Language); ok {
		// Canonical fragments that merge onto one row need mating
		// left/right sockets, same as the vertical chain.
		pattern.MateRows(patterns, analyzer.MergeRows(level.CanonicalLines, spec))
	}

	texts := make([]string, 0, len(level.CanonicalLines)+len(level.Distractors))
	texts = append(texts, level.CanonicalLines...)
	texts = append(texts, level.Distractors...)

	rng := rand.New(rand.NewSource(scrambleSeed(level.ID, attempt.ID)))
	order := rng.Perm(len(texts))

	const (
		slotWidth  = 280.0
		slotHeight = 110.0
		originX    = 40.0
		originY    = 40.0
		columns    = 3
	)

	blocks := make([]models.Block, len(texts))
	for i, text := range texts {
		slot := order[i]
		blocks[i] = models.Block{
			ID:         i,
			Text:       text,
			X:          originX + float64(slot%columns)*slotWidth,
			Y:          originY + float64(slot/columns)*slotHeight,
			Color:      blockColors[i%len(blockColors)],
			Pattern:    patterns[i],
			Distractor: i >= len(level.CanonicalLines),
		}
	}

	return &models.BoardState{
		LearnerID: attempt.LearnerID,
		LevelID:   level.ID,
		AttemptID: attempt.ID,
		Blocks:    blocks,
		Links:     nil,
	}
}

// scrambleSeed keys the scramble on level and attempt so each attempt
// deals its own layout while a reset within one repeats it.
func scrambleSeed(levelID int64, attemptID string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d/%s", levelID, attemptID)
	return int64(h.Sum64())
}

func snapshotFromState(state *models.BoardState) *BoardSnapshot {
	return &BoardSnapshot{
		AttemptID: state.AttemptID,
		LevelID:   state.LevelID,
		Blocks:    state.Blocks,
		Links:     state.Links,
	}
}

// currentState loads the learner's open attempt and its board.
func (s *PuzzleService) currentState(learnerID int64) (*models.Attempt, *models.BoardState, error) {
	attempt, err := s.attemptRepo.GetCurrentAttempt(learnerID)
	if err != nil {
		return nil, nil, err
	}
	if attempt == nil {
		return nil, nil, ErrNoActiveAttempt
	}
	state, err := s.boardRepo.GetBoardState(attempt.ID)
	if err != nil {
		return nil, nil, err
	}
	if state == nil {
		return nil, nil, ErrNoActiveAttempt
	}
	return attempt, state, nil
}

// GetBoard returns the learner's current board snapshot along with the
// last settled background analysis, if one has run.
func (s *PuzzleService) GetBoard(learnerID int64) (*BoardSnapshot, error) {
	_, state, err := s.currentState(learnerID)
	if err != nil {
		return nil, err
	}
	snap := snapshotFromState(state)
	snap.Analysis = s.cachedAnalysis(learnerID)
	return snap, nil
}

// DragEvent is one pointer event applied to a block. X and Y are the
// block's top-left position, already offset-corrected by the client.
type DragEvent struct {
	Phase   string  `json:"phase"` // "down", "move" or "release"
	BlockID int     `json:"blockId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// DragResult reports the board after an event, plus the previewed snap
// for moves and the committed snap animation for releases.
type DragResult struct {
	Board     *BoardSnapshot       `json:"board"`
	Snap      *board.SnapCandidate `json:"snap,omitempty"`
	Animation *board.Animation     `json:"animation,omitempty"`
}

// ApplyDrag applies one drag event to the learner's board and persists
// the outcome.
func (s *PuzzleService) ApplyDrag(learnerID int64, event DragEvent) (*DragResult, error) {
	lock := s.learnerLock(learnerID)
	lock.Lock()
	defer lock.Unlock()

	_, state, err := s.currentState(learnerID)
	if err != nil {
		return nil, err
	}
	level, err := s.levelRepo.GetLevelByID(state.LevelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}

	b := board.New(state.Blocks, graph.FromLinks(state.Links), 1)
	if _, ok := b.Block(event.BlockID); !ok {
		return nil, board.ErrUnknownBlock
	}

	result := &DragResult{}
	switch event.Phase {
	case "down":
		// Pointer down just opens the gesture; the board is untouched
		// until the first move.
	case "move":
		b = b.WithBlockAt(event.BlockID, models.Point{X: event.X, Y: event.Y})
		b = board.BreakStretched(b, event.BlockID)
		if cand, ok := board.FindBestSnap(b, event.BlockID); ok {
			result.Snap = &cand
		}
	case "release":
		b = b.WithBlockAt(event.BlockID, models.Point{X: event.X, Y: event.Y})
		b = board.BreakStretched(b, event.BlockID)
		if cand, ok := board.FindBestSnap(b, event.BlockID); ok {
			b = b.WithGraph(b.Graph.Connect(cand.MovingID, cand.MovingSide, cand.TargetID))
			blk, _ := b.Block(cand.MovingID)
			anim := board.NewAnimation(cand.MovingID, blk.Pos(), cand.Align)
			b = b.WithBlockAt(cand.MovingID, cand.Align)
			result.Animation = &anim
		}
	default:
		return nil, fmt.Errorf("unknown drag phase: %s", event.Phase)
	}

	state.Blocks = b.Blocks
	state.Links = b.Graph.Links()
	if err := s.boardRepo.SaveBoardState(state); err != nil {
		return nil, err
	}
	s.scheduleAnalysis(learnerID, state, level)

	result.Board = snapshotFromState(state)
	return result, nil
}

// Reset deals a fresh scrambled board for the learner's open attempt
func (s *PuzzleService) Reset(learnerID int64) (*BoardSnapshot, error) {
	lock := s.learnerLock(learnerID)
	lock.Lock()
	defer lock.Unlock()

	attempt, _, err := s.currentState(learnerID)
	if err != nil {
		return nil, err
	}
	level, err := s.levelRepo.GetLevelByID(attempt.LevelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}

	state := s.buildBoardState(level, attempt)
	if err := s.boardRepo.SaveBoardState(state); err != nil {
		return nil, err
	}
	s.dropAnalysis(learnerID)
	s.scheduleAnalysis(learnerID, state, level)
	return snapshotFromState(state), nil
}

// SubmitResult is the full outcome of a submit.
type SubmitResult struct {
	Validation models.ValidationResult `json:"validation"`
	Points     int                     `json:"points"`
	CoinsWon   int                     `json:"coinsWon"`
	Difficulty string                  `json:"difficulty"`
}

// Submit validates the learner's assembled program: logic check, then
// structural diff, then interpretation with output comparison. Success
// closes the attempt, awards points and coins, and adapts the
// learner's difficulty. Failure records the outcome and leaves the
// attempt open for another try.
func (s *PuzzleService) Submit(learnerID int64) (*SubmitResult, error) {
	lock := s.learnerLock(learnerID)
	lock.Lock()
	defer lock.Unlock()

	attempt, state, err := s.currentState(learnerID)
	if err != nil {
		return nil, err
	}
	level, err := s.levelRepo.GetLevelByID(attempt.LevelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}
	spec, ok := lang.Get(level.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, level.Language)
	}

	// Submit validates synchronously; a pending background pass would
	// only duplicate the work.
	s.dropAnalysis(learnerID)

	rec := reconstruct.Reconstruct(state.Blocks, graph.FromLinks(state.Links))
	if err := s.attemptRepo.RecordSubmission(attempt.ID, rec.Text); err != nil {
		return nil, err
	}

	validation := s.validate(rec, level, spec)
	success := validation.Status == models.ValidationSuccess

	result := &SubmitResult{Validation: validation}
	if success {
		points := basePoints - attempt.HintsUsed*hintPointsPenalty
		if points < minPoints {
			points = minPoints
		}
		if err := s.attemptRepo.CompleteAttempt(attempt.ID, true, points); err != nil {
			return nil, err
		}
		if err := s.learnerRepo.AdjustCoins(learnerID, coinsPerSolve); err != nil {
			return nil, err
		}
		if err := s.boardRepo.DeleteBoardState(attempt.ID); err != nil {
			return nil, err
		}
		result.Points = points
		result.CoinsWon = coinsPerSolve
	}

	label, err := s.adaptDifficulty(learnerID, success)
	if err != nil {
		return nil, err
	}
	result.Difficulty = label

	return result, nil
}

// validate runs the three-stage submission pipeline.
func (s *PuzzleService) validate(rec reconstruct.Result, level *models.Level, spec *lang.Spec) models.ValidationResult {
	expected := interp.Execute(strings.Join(level.CanonicalLines, "\n"), level.Language)

	// Stage 1: logic issues surface before any structural comparison.
	if issues := interp.DetectLogicIssues(rec.LineTexts(), level.Language); len(issues) > 0 {
		return models.ValidationResult{
			Status:         models.ValidationError,
			Detail:         issues[0].Message,
			ExpectedOutput: expected,
		}
	}

	// Stage 2: structural diff against the canonical program.
	if mismatch := analyzer.FirstMismatch(rec, level.CanonicalLines, spec); mismatch != nil {
		return models.ValidationResult{
			Status:         models.ValidationError,
			Detail:         describeMismatch(mismatch),
			ExpectedOutput: expected,
		}
	}

	// Stage 3: interpret and compare outputs.
	actual := interp.Execute(rec.Text, level.Language)
	if actual != expected {
		return models.ValidationResult{
			Status:         models.ValidationError,
			Detail:         "program output differs from the expected output",
			ExpectedOutput: expected,
			ActualOutput:   actual,
		}
	}

	return models.ValidationResult{
		Status:         models.ValidationSuccess,
		ExpectedOutput: expected,
		ActualOutput:   actual,
	}
}

func describeMismatch(m *analyzer.Mismatch) string {
	switch m.Type {
	case analyzer.MismatchMissing:
		return fmt.Sprintf("line %d is missing: %q", m.Index+1, m.ExpectedLine)
	case analyzer.MismatchExtra:
		return fmt.Sprintf("line %d does not belong: %q", m.Index+1, m.ActualLine)
	default:
		return fmt.Sprintf("line %d is out of place: %q", m.Index+1, m.ActualLine)
	}
}

// adaptDifficulty records the outcome and runs the IRT + adjustment
// pipeline, persisting the new ability estimate.
func (s *PuzzleService) adaptDifficulty(learnerID int64, success bool) (string, error) {
	if err := s.learnerRepo.RecordOutcome(learnerID, success); err != nil {
		return "", err
	}
	learner, err := s.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		return "", err
	}
	if learner == nil {
		return "", fmt.Errorf("learner %d not found", learnerID)
	}

	// Experience is total points earned; solved puzzles stand in for
	// completed achievements.
	_, solved, points, _, err := s.attemptRepo.GetProgress(learnerID)
	if err != nil {
		return "", err
	}

	prev := learner.Theta
	snap := s.model.Evaluate(
		learner.Theta, learner.Beta,
		learner.SuccessCount, learner.FailCount,
		learner.SessionsPlayed, points, solved, &prev,
	)

	adjuster := difficulty.NewAdjuster()
	adjuster.Restore(learner.Beta, learner.Momentum)
	adj := adjuster.Adjust(learner.Beta, snap, learner.SuccessCount, learner.FailCount)

	if err := s.learnerRepo.UpdateAbility(learnerID, snap.Theta, adj.BetaNew, adjuster.Momentum()); err != nil {
		return "", err
	}
	return adj.Label, nil
}

// GetProgress aggregates a learner's profile and attempt statistics
func (s *PuzzleService) GetProgress(learnerID int64) (*models.LearnerProgress, error) {
	learner, err := s.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, fmt.Errorf("learner %d not found", learnerID)
	}

	total, solved, points, hints, err := s.attemptRepo.GetProgress(learnerID)
	if err != nil {
		return nil, err
	}

	rank, _ := difficulty.RankFromEXP(points)
	return &models.LearnerProgress{
		Learner:        *learner,
		TotalAttempts:  total,
		SolvedAttempts: solved,
		TotalPoints:    points,
		TotalHints:     hints,
		Difficulty:     difficulty.LabelFromBeta(learner.Beta),
		Rank:           rank,
	}, nil
}

// ListLevels returns the level catalog, optionally filtered by language
func (s *PuzzleService) ListLevels(language string) ([]models.LevelSummary, error) {
	return s.levelRepo.ListLevels(language)
}

// LevelLayout computes the rendered size of each block of a level at a
// display scale, for clients that size the canvas ahead of play.
func (s *PuzzleService) LevelLayout(levelID int64, scale float64) ([]geometry.Layout, error) {
	level, err := s.levelRepo.GetLevelByID(levelID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}

	layouts := make([]geometry.Layout, 0, len(level.CanonicalLines)+len(level.Distractors))
	for _, text := range level.CanonicalLines {
		layouts = append(layouts, geometry.ComputeLayout(text, scale))
	}
	for _, text := range level.Distractors {
		layouts = append(layouts, geometry.ComputeLayout(text, scale))
	}
	return layouts, nil
}
