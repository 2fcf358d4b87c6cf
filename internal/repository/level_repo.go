package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"codeclash/internal/database"
	"codeclash/internal/models"
)

// LevelRepository handles database operations for puzzle levels
type LevelRepository struct {
	db database.DBTX
}

// NewLevelRepository creates a new level repository
func NewLevelRepository(db database.DBTX) *LevelRepository {
	return &LevelRepository{db: db}
}

// CreateLevel inserts a new level. Canonical lines and distractors are
// stored as JSON arrays.
func (r *LevelRepository) CreateLevel(level *models.Level) (*models.Level, error) {
	canonical, err := json.Marshal(level.CanonicalLines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode canonical lines: %w", err)
	}
	distractors, err := json.Marshal(level.Distractors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode distractors: %w", err)
	}

	query := `
		INSERT INTO levels (title, language, sequence, difficulty, canonical_lines, distractors, strategy_hint)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		level.Title, level.Language, level.Sequence, level.Difficulty,
		string(canonical), string(distractors), level.StrategyHint)
	if err != nil {
		return nil, fmt.Errorf("failed to create level: %w", err)
	}

	created := *level
	created.ID = id
	return &created, nil
}

// GetLevelByID retrieves a level by ID
func (r *LevelRepository) GetLevelByID(id int64) (*models.Level, error) {
	query := `
		SELECT id, title, language, sequence, difficulty, canonical_lines, distractors, strategy_hint, created_at, updated_at
		FROM levels
		WHERE id = ?
	`
	level := &models.Level{}
	var canonical, distractors string
	err := r.db.QueryRow(query, id).Scan(
		&level.ID,
		&level.Title,
		&level.Language,
		&level.Sequence,
		&level.Difficulty,
		&canonical,
		&distractors,
		&level.StrategyHint,
		&level.CreatedAt,
		&level.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}

	if err := json.Unmarshal([]byte(canonical), &level.CanonicalLines); err != nil {
		return nil, fmt.Errorf("failed to decode canonical lines: %w", err)
	}
	if err := json.Unmarshal([]byte(distractors), &level.Distractors); err != nil {
		return nil, fmt.Errorf("failed to decode distractors: %w", err)
	}

	return level, nil
}

// ListLevels returns summaries of all levels, optionally filtered by
// language, ordered by language then sequence.
func (r *LevelRepository) ListLevels(language string) ([]models.LevelSummary, error) {
	query := `
		SELECT id, title, language, sequence, difficulty, canonical_lines
		FROM levels
	`
	args := []interface{}{}
	if language != "" {
		query += " WHERE language = ?"
		args = append(args, language)
	}
	query += " ORDER BY language, sequence"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var summaries []models.LevelSummary
	for rows.Next() {
		var s models.LevelSummary
		var canonical string
		if err := rows.Scan(&s.ID, &s.Title, &s.Language, &s.Sequence, &s.Difficulty, &canonical); err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}

		var lines []string
		if err := json.Unmarshal([]byte(canonical), &lines); err != nil {
			return nil, fmt.Errorf("failed to decode canonical lines: %w", err)
		}
		s.LineCount = len(lines)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// CountLevels returns the total number of levels
func (r *LevelRepository) CountLevels() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM levels").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count levels: %w", err)
	}
	return count, nil
}
