// Package hint implements the three escalating help tiers: strategy
// guidance, a phrased syntax diagnostic, and a bounded single-block
// auto-correction. Tier gating (cost, once-per-attempt) lives with the
// caller; a denied permission callback makes every tier a strict no-op.
package hint

import (
	"errors"
	"fmt"

	"codeclash/internal/analyzer"
	"codeclash/internal/board"
	"codeclash/internal/lang"
)

// Hint tiers, cheapest first.
const (
	TierStrategy = 1
	TierSyntax   = 2
	TierAutoFix  = 3
)

var (
	// ErrDenied is returned when the permission callback refuses the
	// tier. Board state is left untouched.
	ErrDenied = errors.New("hint permission denied")

	// ErrUnknownTier is returned for tiers outside 1..3.
	ErrUnknownTier = errors.New("unknown hint tier")
)

// Permission is the external gate consulted before any tier runs.
type Permission func(tier int) bool

// Result is what a granted hint produced. Tier 3 may carry a changed
// board and the animations that move blocks into place.
type Result struct {
	Tier         int
	Message      string
	HighlightIDs []int
	Board        board.Board
	Animations   []board.Animation
	Changed      bool
}

// Engine answers hint requests for one level.
type Engine struct {
	canonical []string
	spec      *lang.Spec
	strategy  string
}

// NewEngine builds a hint engine over a level's canonical lines. The
// strategy text is author-supplied; a generic fallback is used when
// the level carries none.
func NewEngine(canonical []string, spec *lang.Spec, strategyText string) *Engine {
	if strategyText == "" {
		strategyText = "Read the program top to bottom: which statement has to run first for the later ones to make sense?"
	}
	return &Engine{canonical: canonical, spec: spec, strategy: strategyText}
}

// Hint serves one tier against the current board. The permission
// callback is consulted first; on denial nothing is inspected or
// mutated.
func (e *Engine) Hint(tier int, b board.Board, allow Permission) (Result, error) {
	if tier < TierStrategy || tier > TierAutoFix {
		return Result{}, ErrUnknownTier
	}
	if allow != nil && !allow(tier) {
		return Result{}, ErrDenied
	}

	switch tier {
	case TierStrategy:
		return Result{Tier: tier, Message: e.strategy, Board: b}, nil
	case TierSyntax:
		return e.syntaxHint(b), nil
	default:
		return e.autoFix(b), nil
	}
}

// syntaxHint runs the analyzer once and phrases the first mismatch.
func (e *Engine) syntaxHint(b board.Board) Result {
	mismatch := e.analyze(b)
	if mismatch == nil {
		return Result{
			Tier:    TierSyntax,
			Message: "Everything lines up — submit it!",
			Board:   b,
		}
	}

	var msg string
	switch mismatch.Type {
	case analyzer.MismatchMissing:
		msg = fmt.Sprintf("Line %d is missing: the program still needs %q. Find that block and snap it in.",
			mismatch.Index+1, mismatch.ExpectedLine)
	case analyzer.MismatchExtra:
		msg = fmt.Sprintf("Line %d doesn't belong: %q is not part of this program. Pull it out of the chain.",
			mismatch.Index+1, mismatch.ActualLine)
	default:
		msg = fmt.Sprintf("Line %d reads %q but should read %q. Swap in the right block there.",
			mismatch.Index+1, mismatch.ActualLine, mismatch.ExpectedLine)
	}

	return Result{
		Tier:         TierSyntax,
		Message:      msg,
		HighlightIDs: mismatch.ActualBlockIDs,
		Board:        b,
	}
}

func (e *Engine) analyze(b board.Board) *analyzer.Mismatch {
	rec := reconstructBoard(b)
	return analyzer.FirstMismatch(rec, e.canonical, e.spec)
}
