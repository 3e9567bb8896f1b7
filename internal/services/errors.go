package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes in one place; the messages double as client-facing error
// text.
var (
	// Auth
	ErrValidation         = errors.New("username must be at least 3 characters and password at least 6 characters")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Quiz
	ErrEmptyContext       = errors.New("invalid or too short context for quiz generation")
	ErrNoActiveSession    = errors.New("no active quiz session found")
	ErrInvalidLLMResponse = errors.New("invalid response structure from language model")
)
