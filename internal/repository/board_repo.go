package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"codeclash/internal/database"
	"codeclash/internal/models"
)

// BoardRepository persists the board of an in-flight attempt
type BoardRepository struct {
	db database.DBTX
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db database.DBTX) *BoardRepository {
	return &BoardRepository{db: db}
}

// SaveBoardState upserts the board for an attempt
func (r *BoardRepository) SaveBoardState(state *models.BoardState) error {
	blocks, err := json.Marshal(state.Blocks)
	if err != nil {
		return fmt.Errorf("failed to encode blocks: %w", err)
	}
	links, err := json.Marshal(state.Links)
	if err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}

	// Update first; insert when the attempt has no saved board yet.
	query := `
		UPDATE board_states
		SET blocks = ?, links = ?, updated_at = CURRENT_TIMESTAMP
		WHERE attempt_id = ?
	`
	result, err := r.db.Exec(query, string(blocks), string(links), state.AttemptID)
	if err != nil {
		return fmt.Errorf("failed to save board state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save board state: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query = `
		INSERT INTO board_states (attempt_id, learner_id, level_id, blocks, links)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, state.AttemptID, state.LearnerID, state.LevelID, string(blocks), string(links))
	if err != nil {
		return fmt.Errorf("failed to save board state: %w", err)
	}
	return nil
}

// GetBoardState retrieves the saved board for an attempt
func (r *BoardRepository) GetBoardState(attemptID string) (*models.BoardState, error) {
	query := `
		SELECT attempt_id, learner_id, level_id, blocks, links, updated_at
		FROM board_states
		WHERE attempt_id = ?
	`
	state := &models.BoardState{}
	var blocks, links string
	err := r.db.QueryRow(query, attemptID).Scan(
		&state.AttemptID,
		&state.LearnerID,
		&state.LevelID,
		&blocks,
		&links,
		&state.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board state: %w", err)
	}

	if err := json.Unmarshal([]byte(blocks), &state.Blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	if err := json.Unmarshal([]byte(links), &state.Links); err != nil {
		return nil, fmt.Errorf("failed to decode links: %w", err)
	}

	return state, nil
}

// DeleteBoardState removes the saved board for an attempt
func (r *BoardRepository) DeleteBoardState(attemptID string) error {
	_, err := r.db.Exec("DELETE FROM board_states WHERE attempt_id = ?", attemptID)
	if err != nil {
		return fmt.Errorf("failed to delete board state: %w", err)
	}
	return nil
}
