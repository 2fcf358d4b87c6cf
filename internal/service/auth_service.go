package service

import (
	"errors"
	"fmt"
	"strings"

	"codeclash/internal/credentials"
	"codeclash/internal/models"
	"codeclash/internal/repository"
	"codeclash/internal/security"
	"codeclash/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or PIN")
	ErrNameRejected       = errors.New("display name rejected")
)

// WordScreener checks words against the profanity filter
type WordScreener interface {
	ValidateWords(words []string) ([]string, error)
}

// AuthService handles learner account creation and login
type AuthService struct {
	learnerRepo *repository.LearnerRepository
	tokens      *security.TokenIssuer
	screener    WordScreener
}

// NewAuthService creates a new auth service
func NewAuthService(learnerRepo *repository.LearnerRepository, tokens *security.TokenIssuer, screener WordScreener) *AuthService {
	return &AuthService{
		learnerRepo: learnerRepo,
		tokens:      tokens,
		screener:    screener,
	}
}

// CreateLearner provisions a new learner account with a generated
// adjective-noun username and 4-digit PIN. The plaintext PIN is
// returned once for handing to the learner and never stored.
func (s *AuthService) CreateLearner(displayName, email string) (*models.Learner, string, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName != "" {
		if err := validation.ValidateName(displayName); err != nil {
			return nil, "", err
		}
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, "", err
		}
	}

	if displayName != "" && s.screener != nil {
		bad, err := s.screener.ValidateWords(strings.Fields(displayName))
		if err != nil {
			return nil, "", fmt.Errorf("failed to screen display name: %w", err)
		}
		if len(bad) > 0 {
			return nil, "", ErrNameRejected
		}
	}

	pin, err := credentials.GeneratePIN()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate PIN: %w", err)
	}
	pinHash, err := security.HashPassword(pin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash PIN: %w", err)
	}

	// Regenerate on username collision; the word lists give ~1600
	// combinations so a handful of retries is plenty.
	for i := 0; i < 10; i++ {
		username, err := credentials.GenerateUsername()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate username: %w", err)
		}

		existing, err := s.learnerRepo.GetLearnerByUsername(username)
		if err != nil {
			return nil, "", err
		}
		if existing != nil {
			continue
		}

		learner, err := s.learnerRepo.CreateLearner(username, displayName, pinHash, email)
		if err != nil {
			return nil, "", err
		}
		return learner, pin, nil
	}

	return nil, "", errors.New("failed to find a free username")
}

// Login authenticates a learner and issues a session token
func (s *AuthService) Login(username, pin string) (*models.Learner, string, error) {
	if err := validation.ValidatePIN(pin); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	learner, err := s.learnerRepo.GetLearnerByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", fmt.Errorf("failed to get learner: %w", err)
	}
	if learner == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(pin, learner.PinHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(learner.ID, learner.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	// Sessions feed the ability decay in the difficulty model.
	if err := s.learnerRepo.IncrementSessions(learner.ID); err != nil {
		return nil, "", err
	}
	learner.SessionsPlayed++

	return learner, token, nil
}

// GetLearner loads a learner profile by ID
func (s *AuthService) GetLearner(id int64) (*models.Learner, error) {
	return s.learnerRepo.GetLearnerByID(id)
}
