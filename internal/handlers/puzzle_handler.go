package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"codeclash/internal/board"
	"codeclash/internal/hint"
	"codeclash/internal/service"
)

// PuzzleHandler handles the puzzle lifecycle endpoints
type PuzzleHandler struct {
	puzzleService *service.PuzzleService
	hintService   *service.HintService
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(puzzleService *service.PuzzleService, hintService *service.HintService) *PuzzleHandler {
	return &PuzzleHandler{
		puzzleService: puzzleService,
		hintService:   hintService,
	}
}

// ListLevels returns the level catalog
func (h *PuzzleHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.puzzleService.ListLevels(r.URL.Query().Get("language"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list levels", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"levels": levels})
}

// Start opens or resumes an attempt at a level
func (h *PuzzleHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())
	levelID, err := strconv.ParseInt(r.PathValue("levelID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid level ID", "", err)
		return
	}

	snapshot, err := h.puzzleService.StartPuzzle(claims.LearnerID, levelID)
	if err != nil {
		if errors.Is(err, service.ErrLevelNotFound) {
			respondWithError(w, http.StatusNotFound, "Level not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start puzzle", err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// Board returns the learner's current board
func (h *PuzzleHandler) Board(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())

	snapshot, err := h.puzzleService.GetBoard(claims.LearnerID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveAttempt) {
			respondWithError(w, http.StatusNotFound, "No active puzzle", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load board", err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// Drag applies one pointer event to the board
func (h *PuzzleHandler) Drag(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())

	var event service.DragEvent
	if err := decodeJSON(r, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	result, err := h.puzzleService.ApplyDrag(claims.LearnerID, event)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAttempt):
			respondWithError(w, http.StatusNotFound, "No active puzzle", "", nil)
		case errors.Is(err, board.ErrUnknownBlock):
			respondWithError(w, http.StatusBadRequest, "Unknown block", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to apply drag", err)
		}
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Submit validates the assembled program
func (h *PuzzleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())

	result, err := h.puzzleService.Submit(claims.LearnerID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveAttempt) {
			respondWithError(w, http.StatusNotFound, "No active puzzle", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to submit", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Hint serves one hint tier for the current attempt
func (h *PuzzleHandler) Hint(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())
	tier, err := strconv.Atoi(r.PathValue("tier"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid hint tier", "", err)
		return
	}

	outcome, err := h.hintService.RequestHint(claims.LearnerID, tier)
	if err != nil {
		switch {
		case errors.Is(err, hint.ErrUnknownTier):
			respondWithError(w, http.StatusBadRequest, "Invalid hint tier", "", nil)
		case errors.Is(err, hint.ErrDenied):
			respondWithError(w, http.StatusPaymentRequired, "Hint not available", "", nil)
		case errors.Is(err, service.ErrNoActiveAttempt):
			respondWithError(w, http.StatusNotFound, "No active puzzle", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to serve hint", err)
		}
		return
	}
	respondWithJSON(w, http.StatusOK, outcome)
}

// Reset deals a fresh board for the current attempt
func (h *PuzzleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())

	snapshot, err := h.puzzleService.Reset(claims.LearnerID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveAttempt) {
			respondWithError(w, http.StatusNotFound, "No active puzzle", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to reset board", err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}
