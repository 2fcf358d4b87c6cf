package models

import "time"

// Level is one puzzle: an ordered list of canonical source lines the
// learner must reassemble, plus optional distractor fragments.
type Level struct {
	ID             int64
	Title          string
	Language       string
	Sequence       int
	Difficulty     string
	CanonicalLines []string
	Distractors    []string
	StrategyHint   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LevelSummary is the list-view projection of a level.
type LevelSummary struct {
	ID         int64
	Title      string
	Language   string
	Sequence   int
	Difficulty string
	LineCount  int
}
