package handlers

import (
	"errors"
	"net/http"

	"codeclash/internal/service"
)

// ProgressHandler handles learner progress reporting
type ProgressHandler struct {
	puzzleService *service.PuzzleService
	reportService *service.ReportService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(puzzleService *service.PuzzleService, reportService *service.ReportService) *ProgressHandler {
	return &ProgressHandler{
		puzzleService: puzzleService,
		reportService: reportService,
	}
}

// Progress returns the learner's attempt statistics and difficulty
func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())

	progress, err := h.puzzleService.GetProgress(claims.LearnerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progress", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"username":       progress.Learner.Username,
		"displayName":    progress.Learner.DisplayName,
		"coins":          progress.Learner.Coins,
		"totalAttempts":  progress.TotalAttempts,
		"solvedAttempts": progress.SolvedAttempts,
		"totalPoints":    progress.TotalPoints,
		"totalHints":     progress.TotalHints,
		"difficulty":     progress.Difficulty,
		"rank":           progress.Rank,
	})
}

// EmailReport sends the learner's progress summary to the instructor
// address on the profile.
func (h *ProgressHandler) EmailReport(w http.ResponseWriter, r *http.Request) {
	claims := LearnerFromContext(r.Context())

	progress, err := h.puzzleService.GetProgress(claims.LearnerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progress", err)
		return
	}

	if !h.reportService.IsEnabled() {
		respondWithError(w, http.StatusServiceUnavailable, "Progress reports are not configured", "", nil)
		return
	}

	if err := h.reportService.SendProgressReport(r.Context(), progress); err != nil {
		if errors.Is(err, service.ErrNoReportAddress) {
			respondWithError(w, http.StatusBadRequest, "No email address on this profile", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to send report", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "report sent"})
}
