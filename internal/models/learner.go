package models

import "time"

// Learner is a student profile. Username and PIN are generated for the
// learner; the PIN is stored bcrypt-hashed.
type Learner struct {
	ID             int64
	Username       string
	DisplayName    string
	PinHash        string
	Coins          int
	Theta          float64
	Beta           float64
	Momentum       float64
	SuccessCount   int
	FailCount      int
	SessionsPlayed int
	Email          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LearnerProgress combines a learner with their attempt statistics.
type LearnerProgress struct {
	Learner        Learner
	TotalAttempts  int
	SolvedAttempts int
	TotalPoints    int
	TotalHints     int
	Difficulty     string
	Rank           string
}
