package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"codeclash/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const LearnerContextKey ContextKey = "learner"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.TokenIssuer
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, limiter *security.RateLimiter) *Middleware {
	return &Middleware{tokens: tokens, limiter: limiter}
}

// RequireLearner requires a valid learner session token, taken from
// the Authorization header or the session cookie.
func (m *Middleware) RequireLearner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			if cookie, err := r.Cookie(TokenCookieName); err == nil {
				tokenString = cookie.Value
			}
		}
		if tokenString == "" {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		claims, err := m.tokens.Verify(tokenString)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "Token verification failed", err)
			return
		}

		ctx := context.WithValue(r.Context(), LearnerContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the allowed request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// LearnerFromContext retrieves the learner claims from the request context
func LearnerFromContext(ctx context.Context) *security.LearnerClaims {
	claims, ok := ctx.Value(LearnerContextKey).(*security.LearnerClaims)
	if !ok {
		return nil
	}
	return claims
}
