package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codeclash/internal/database"
	"codeclash/internal/models"
)

// LearnerRepository handles database operations for learner profiles
type LearnerRepository struct {
	db database.DBTX
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db database.DBTX) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// CreateLearner inserts a new learner with a fresh ability estimate
func (r *LearnerRepository) CreateLearner(username, displayName, pinHash, email string) (*models.Learner, error) {
	query := `
		INSERT INTO learners (username, display_name, pin_hash, email)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, username, displayName, pinHash, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner: %w", err)
	}

	return &models.Learner{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		PinHash:     pinHash,
		Beta:        0.5,
		Email:       email,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

const learnerColumns = `
	id, username, display_name, pin_hash, coins, theta, beta, momentum,
	success_count, fail_count, sessions_played, email, created_at, updated_at
`

func scanLearner(row *sql.Row) (*models.Learner, error) {
	learner := &models.Learner{}
	err := row.Scan(
		&learner.ID,
		&learner.Username,
		&learner.DisplayName,
		&learner.PinHash,
		&learner.Coins,
		&learner.Theta,
		&learner.Beta,
		&learner.Momentum,
		&learner.SuccessCount,
		&learner.FailCount,
		&learner.SessionsPlayed,
		&learner.Email,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return learner, nil
}

// GetLearnerByUsername retrieves a learner by username
func (r *LearnerRepository) GetLearnerByUsername(username string) (*models.Learner, error) {
	query := "SELECT " + learnerColumns + " FROM learners WHERE username = ?"
	return scanLearner(r.db.QueryRow(query, username))
}

// GetLearnerByID retrieves a learner by ID
func (r *LearnerRepository) GetLearnerByID(id int64) (*models.Learner, error) {
	query := "SELECT " + learnerColumns + " FROM learners WHERE id = ?"
	return scanLearner(r.db.QueryRow(query, id))
}

// UpdateAbility persists a new ability estimate and adjuster state
func (r *LearnerRepository) UpdateAbility(id int64, theta, beta, momentum float64) error {
	query := `
		UPDATE learners
		SET theta = ?, beta = ?, momentum = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, theta, beta, momentum, id)
	if err != nil {
		return fmt.Errorf("failed to update ability: %w", err)
	}
	return nil
}

// RecordOutcome bumps the success or fail counter for a learner
func (r *LearnerRepository) RecordOutcome(id int64, success bool) error {
	column := "fail_count"
	if success {
		column = "success_count"
	}
	query := "UPDATE learners SET " + column + " = " + column + " + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// IncrementSessions bumps the session counter used for ability decay
func (r *LearnerRepository) IncrementSessions(id int64) error {
	query := "UPDATE learners SET sessions_played = sessions_played + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to increment sessions: %w", err)
	}
	return nil
}

// AdjustCoins changes a learner's coin balance by delta. A negative
// delta that would take the balance below zero fails.
func (r *LearnerRepository) AdjustCoins(id int64, delta int) error {
	query := `
		UPDATE learners
		SET coins = coins + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND coins + ? >= 0
	`
	result, err := r.db.Exec(query, delta, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust coins: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust coins: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("insufficient coins for learner %d", id)
	}
	return nil
}
