package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codeclash/internal/database"
	"codeclash/internal/models"
)

// AttemptRepository handles database operations for attempts and hints
type AttemptRepository struct {
	db database.DBTX
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db database.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// CreateAttempt inserts a new attempt row
func (r *AttemptRepository) CreateAttempt(id string, learnerID, levelID int64) (*models.Attempt, error) {
	query := `
		INSERT INTO attempts (id, learner_id, level_id)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(query, id, learnerID, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	return &models.Attempt{
		ID:        id,
		LearnerID: learnerID,
		LevelID:   levelID,
		StartedAt: time.Now(),
	}, nil
}

// GetAttempt retrieves an attempt by ID
func (r *AttemptRepository) GetAttempt(id string) (*models.Attempt, error) {
	query := `
		SELECT id, learner_id, level_id, started_at, completed_at, success, source_text, points_earned, hints_used
		FROM attempts
		WHERE id = ?
	`
	attempt := &models.Attempt{}
	var completedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&attempt.ID,
		&attempt.LearnerID,
		&attempt.LevelID,
		&attempt.StartedAt,
		&completedAt,
		&attempt.Success,
		&attempt.SourceText,
		&attempt.PointsEarned,
		&attempt.HintsUsed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if completedAt.Valid {
		attempt.CompletedAt = &completedAt.Time
	}
	return attempt, nil
}

// GetOpenAttempt returns the learner's unfinished attempt at a level,
// or nil when none exists.
func (r *AttemptRepository) GetOpenAttempt(learnerID, levelID int64) (*models.Attempt, error) {
	query := `
		SELECT id FROM attempts
		WHERE learner_id = ? AND level_id = ? AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`
	var id string
	err := r.db.QueryRow(query, learnerID, levelID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open attempt: %w", err)
	}
	return r.GetAttempt(id)
}

// GetCurrentAttempt returns the learner's most recent unfinished
// attempt across all levels, or nil when none exists.
func (r *AttemptRepository) GetCurrentAttempt(learnerID int64) (*models.Attempt, error) {
	query := `
		SELECT id FROM attempts
		WHERE learner_id = ? AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`
	var id string
	err := r.db.QueryRow(query, learnerID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current attempt: %w", err)
	}
	return r.GetAttempt(id)
}

// RecordSubmission stores the submitted source on an attempt without
// closing it. A failed submit leaves the attempt open for retries.
func (r *AttemptRepository) RecordSubmission(id, sourceText string) error {
	query := "UPDATE attempts SET source_text = ? WHERE id = ?"
	_, err := r.db.Exec(query, sourceText, id)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// CompleteAttempt closes an attempt with its final outcome
func (r *AttemptRepository) CompleteAttempt(id string, success bool, points int) error {
	query := `
		UPDATE attempts
		SET completed_at = CURRENT_TIMESTAMP, success = ?, points_earned = ?
		WHERE id = ? AND completed_at IS NULL
	`
	result, err := r.db.Exec(query, success, points, id)
	if err != nil {
		return fmt.Errorf("failed to complete attempt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete attempt: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("attempt %s already completed", id)
	}
	return nil
}

// RecordHintUsage stores a consumed hint and bumps the attempt counter
func (r *AttemptRepository) RecordHintUsage(attemptID string, tier, cost int) error {
	query := "INSERT INTO hint_usages (attempt_id, tier, cost) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, attemptID, tier, cost); err != nil {
		return fmt.Errorf("failed to record hint usage: %w", err)
	}

	query = "UPDATE attempts SET hints_used = hints_used + 1 WHERE id = ?"
	if _, err := r.db.Exec(query, attemptID); err != nil {
		return fmt.Errorf("failed to bump hint counter: %w", err)
	}
	return nil
}

// CountHintUsage returns how many times a tier was used in an attempt
func (r *AttemptRepository) CountHintUsage(attemptID string, tier int) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM hint_usages WHERE attempt_id = ? AND tier = ?"
	err := r.db.QueryRow(query, attemptID, tier).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count hint usage: %w", err)
	}
	return count, nil
}

// GetProgress aggregates a learner's attempt statistics
func (r *AttemptRepository) GetProgress(learnerID int64) (total, solved, points, hints int, err error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(points_earned), 0),
			COALESCE(SUM(hints_used), 0)
		FROM attempts
		WHERE learner_id = ? AND completed_at IS NOT NULL
	`
	err = r.db.QueryRow(query, learnerID).Scan(&total, &solved, &points, &hints)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get progress: %w", err)
	}
	return total, solved, points, hints, nil
}
