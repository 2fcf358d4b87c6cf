package handlers

import (
	"errors"
	"net/http"
	"time"

	"codeclash/internal/security"
	"codeclash/internal/service"
	"codeclash/internal/validation"
)

// AuthHandler handles learner registration and login
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Register provisions a learner account. The generated username and
// one-time PIN come back in the response for handing to the learner.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	learner, pin, err := h.authService.CreateLearner(req.DisplayName, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrNameRejected) {
			respondWithError(w, http.StatusBadRequest, "Please choose a different display name", "", nil)
			return
		}
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create learner", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"learnerId": learner.ID,
		"username":  learner.Username,
		"pin":       pin,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

// Login authenticates a learner and returns a session token. The token
// is also set as an HttpOnly cookie for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	learner, token, err := h.authService.Login(req.Username, req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or PIN", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, TokenCookieName, token, time.Now().Add(24*time.Hour)))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":       token,
		"learnerId":   learner.ID,
		"username":    learner.Username,
		"displayName": learner.DisplayName,
		"coins":       learner.Coins,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r, TokenCookieName))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
