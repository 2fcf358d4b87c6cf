package service

import (
	"fmt"

	"codeclash/internal/board"
	"codeclash/internal/graph"
	"codeclash/internal/hint"
	"codeclash/internal/lang"
	"codeclash/internal/repository"
)

// HintCosts is the coin price of each tier. The strategy tier is free.
type HintCosts struct {
	Syntax  int
	AutoFix int
}

// HintService gates the hint engine behind the learner's coin wallet
// and a once-per-tier-per-attempt ledger.
type HintService struct {
	puzzles     *PuzzleService
	levelRepo   *repository.LevelRepository
	attemptRepo *repository.AttemptRepository
	boardRepo   *repository.BoardRepository
	learnerRepo *repository.LearnerRepository
	costs       HintCosts
}

// NewHintService creates a new hint service
func NewHintService(
	puzzles *PuzzleService,
	levelRepo *repository.LevelRepository,
	attemptRepo *repository.AttemptRepository,
	boardRepo *repository.BoardRepository,
	learnerRepo *repository.LearnerRepository,
	costs HintCosts,
) *HintService {
	return &HintService{
		puzzles:     puzzles,
		levelRepo:   levelRepo,
		attemptRepo: attemptRepo,
		boardRepo:   boardRepo,
		learnerRepo: learnerRepo,
		costs:       costs,
	}
}

// HintOutcome is the wire view of a granted hint.
type HintOutcome struct {
	Tier         int               `json:"tier"`
	Message      string            `json:"message"`
	HighlightIDs []int             `json:"highlightIds,omitempty"`
	Board        *BoardSnapshot    `json:"board,omitempty"`
	Animations   []board.Animation `json:"animations,omitempty"`
	Cost         int               `json:"cost"`
	CoinsLeft    int               `json:"coinsLeft"`
}

func (s *HintService) costForTier(tier int) int {
	switch tier {
	case hint.TierSyntax:
		return s.costs.Syntax
	case hint.TierAutoFix:
		return s.costs.AutoFix
	default:
		return 0
	}
}

// RequestHint runs one hint tier for the learner's open attempt. The
// permission callback denies a tier already used in this attempt or
// one the wallet cannot cover; denial leaves every piece of state
// untouched.
func (s *HintService) RequestHint(learnerID int64, tier int) (*HintOutcome, error) {
	lock := s.puzzles.learnerLock(learnerID)
	lock.Lock()
	defer lock.Unlock()

	attempt, state, err := s.puzzles.currentState(learnerID)
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
	learner, err := s.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, fmt.Errorf("learner %d not found", learnerID)
	}

	cost := s.costForTier(tier)
	used, err := s.attemptRepo.CountHintUsage(attempt.ID, tier)
	if err != nil {
		return nil, err
	}
	allowed := used == 0 && learner.Coins >= cost

	engine := hint.NewEngine(level.CanonicalLines, spec, level.StrategyHint)
	b := board.New(state.Blocks, graph.FromLinks(state.Links), 1)

	result, err := engine.Hint(tier, b, func(int) bool { return allowed })
	if err != nil {
		return nil, err
	}

	if cost > 0 {
		if err := s.learnerRepo.AdjustCoins(learnerID, -cost); err != nil {
			return nil, err
		}
	}
	if err := s.attemptRepo.RecordHintUsage(attempt.ID, tier, cost); err != nil {
		return nil, err
	}

	outcome := &HintOutcome{
		Tier:         result.Tier,
		Message:      result.Message,
		HighlightIDs: result.HighlightIDs,
		Animations:   result.Animations,
		Cost:         cost,
		CoinsLeft:    learner.Coins - cost,
	}

	if result.Changed {
		state.Blocks = result.Board.Blocks
		state.Links = result.Board.Graph.Links()
		if err := s.boardRepo.SaveBoardState(state); err != nil {
			return nil, err
		}
		outcome.Board = snapshotFromState(state)
	}

	return outcome, nil
}
