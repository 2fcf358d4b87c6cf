package models

import "time"

// ValidationStatus is the outcome of a submit.
type ValidationStatus string

const (
	ValidationPending ValidationStatus = "pending"
	ValidationSuccess ValidationStatus = "success"
	ValidationError   ValidationStatus = "error"
)

// ValidationResult is recomputed on every submit and never persisted
// as-is; the attempt row records only the final outcome.
type ValidationResult struct {
	Status         ValidationStatus `json:"status"`
	Detail         string           `json:"detail"`
	ExpectedOutput string           `json:"expectedOutput"`
	ActualOutput   string           `json:"actualOutput"`
}

// Attempt is one learner run at a level.
type Attempt struct {
	ID           string
	LearnerID    int64
	LevelID      int64
	StartedAt    time.Time
	CompletedAt  *time.Time
	Success      bool
	SourceText   string
	PointsEarned int
	HintsUsed    int
}

// HintUsage records one consumed hint tier within an attempt.
type HintUsage struct {
	ID        int64
	AttemptID string
	Tier      int
	Cost      int
	UsedAt    time.Time
}

// BoardState is the persisted board of an in-flight attempt.
type BoardState struct {
	LearnerID int64
	LevelID   int64
	AttemptID string
	Blocks    []Block
	Links     []Link
	UpdatedAt time.Time
}
