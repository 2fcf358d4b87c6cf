package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// LearnerClaims are the JWT claims carried by a learner session token
type LearnerClaims struct {
	LearnerID int64  `json:"learner_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies learner session tokens
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

// Issue creates a signed session token for a learner
func (ti *TokenIssuer) Issue(learnerID int64, username string) (string, error) {
	now := time.Now()
	claims := LearnerClaims{
		LearnerID: learnerID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", learnerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.duration)),
			ID:        GenerateSessionID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims
func (ti *TokenIssuer) Verify(tokenString string) (*LearnerClaims, error) {
	claims := &LearnerClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
