package handlers

const (
	TokenCookieName = "session_token"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests"
)
