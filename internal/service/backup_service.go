package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"codeclash/internal/database"
)

// BackupService exports and imports the catalog and learner data as a
// single JSON document.
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Backup is the on-disk document format.
type Backup struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Learners  []LearnerExport `json:"learners"`
	Levels    []LevelExport   `json:"levels"`
	Attempts  []AttemptExport `json:"attempts"`
}

type LearnerExport struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	DisplayName    string  `json:"display_name"`
	PinHash        string  `json:"pin_hash"`
	Coins          int     `json:"coins"`
	Theta          float64 `json:"theta"`
	Beta           float64 `json:"beta"`
	Momentum       float64 `json:"momentum"`
	SuccessCount   int     `json:"success_count"`
	FailCount      int     `json:"fail_count"`
	SessionsPlayed int     `json:"sessions_played"`
	Email          string  `json:"email"`
}

type LevelExport struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Language       string `json:"language"`
	Sequence       int    `json:"sequence"`
	Difficulty     string `json:"difficulty"`
	CanonicalLines string `json:"canonical_lines"`
	Distractors    string `json:"distractors"`
	StrategyHint   string `json:"strategy_hint"`
}

type AttemptExport struct {
	ID           string     `json:"id"`
	LearnerID    int64      `json:"learner_id"`
	LevelID      int64      `json:"level_id"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	Success      bool       `json:"success"`
	SourceText   string     `json:"source_text"`
	PointsEarned int        `json:"points_earned"`
	HintsUsed    int        `json:"hints_used"`
}

// Export writes the full backup document to path
func (s *BackupService) Export(path string) error {
	backup := Backup{Version: 1, CreatedAt: time.Now()}

	rows, err := s.db.Query(`
		SELECT id, username, display_name, pin_hash, coins, theta, beta, momentum,
		       success_count, fail_count, sessions_played, email
		FROM learners ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to export learners: %w", err)
	}
	for rows.Next() {
		var l LearnerExport
		if err := rows.Scan(&l.ID, &l.Username, &l.DisplayName, &l.PinHash, &l.Coins,
			&l.Theta, &l.Beta, &l.Momentum, &l.SuccessCount, &l.FailCount,
			&l.SessionsPlayed, &l.Email); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan learner: %w", err)
		}
		backup.Learners = append(backup.Learners, l)
	}
	rows.Close()

	rows, err = s.db.Query(`
		SELECT id, title, language, sequence, difficulty, canonical_lines, distractors, strategy_hint
		FROM levels ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to export levels: %w", err)
	}
	for rows.Next() {
		var l LevelExport
		if err := rows.Scan(&l.ID, &l.Title, &l.Language, &l.Sequence, &l.Difficulty,
			&l.CanonicalLines, &l.Distractors, &l.StrategyHint); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan level: %w", err)
		}
		backup.Levels = append(backup.Levels, l)
	}
	rows.Close()

	rows, err = s.db.Query(`
		SELECT id, learner_id, level_id, started_at, completed_at, success, source_text, points_earned, hints_used
		FROM attempts ORDER BY started_at
	`)
	if err != nil {
		return fmt.Errorf("failed to export attempts: %w", err)
	}
	for rows.Next() {
		var a AttemptExport
		var completedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.LevelID, &a.StartedAt, &completedAt,
			&a.Success, &a.SourceText, &a.PointsEarned, &a.HintsUsed); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan attempt: %w", err)
		}
		if completedAt.Valid {
			a.CompletedAt = &completedAt.Time
		}
		backup.Attempts = append(backup.Attempts, a)
	}
	rows.Close()

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	log.Printf("Exported %d learners, %d levels, %d attempts to %s",
		len(backup.Learners), len(backup.Levels), len(backup.Attempts), path)
	return nil
}

// Import loads a backup document into the database. With clear set the
// existing rows are removed first.
func (s *BackupService) Import(path string, clear bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != 1 {
		return fmt.Errorf("unsupported backup version: %d", backup.Version)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clear {
		for _, table := range []string{"hint_usages", "board_states", "attempts", "levels", "learners"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	for _, l := range backup.Learners {
		_, err := tx.Exec(`
			INSERT INTO learners (id, username, display_name, pin_hash, coins, theta, beta, momentum,
			                      success_count, fail_count, sessions_played, email)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, l.ID, l.Username, l.DisplayName, l.PinHash, l.Coins, l.Theta, l.Beta, l.Momentum,
			l.SuccessCount, l.FailCount, l.SessionsPlayed, l.Email)
		if err != nil {
			return fmt.Errorf("failed to import learner %s: %w", l.Username, err)
		}
	}

	for _, l := range backup.Levels {
		_, err := tx.Exec(`
			INSERT INTO levels (id, title, language, sequence, difficulty, canonical_lines, distractors, strategy_hint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, l.ID, l.Title, l.Language, l.Sequence, l.Difficulty, l.CanonicalLines, l.Distractors, l.StrategyHint)
		if err != nil {
			return fmt.Errorf("failed to import level %q: %w", l.Title, err)
		}
	}

	for _, a := range backup.Attempts {
		_, err := tx.Exec(`
			INSERT INTO attempts (id, learner_id, level_id, started_at, completed_at, success, source_text, points_earned, hints_used)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.LearnerID, a.LevelID, a.StartedAt, a.CompletedAt, a.Success, a.SourceText, a.PointsEarned, a.HintsUsed)
		if err != nil {
			return fmt.Errorf("failed to import attempt %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Imported %d learners, %d levels, %d attempts from %s",
		len(backup.Learners), len(backup.Levels), len(backup.Attempts), path)
	return nil
}
