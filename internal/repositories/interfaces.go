package repositories

import (
	"context"
	"errors"

	"github.com/studysphere/study-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrNoQuizSession = errors.New("no quiz session stored")
)

// UserRepository stores registered users. Usernames are unique; a duplicate
// Create fails with ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionRepository holds at most one active quiz session per user. Put
// overwrites any existing session for the same user; Delete is a no-op for a
// missing session.
type SessionRepository interface {
	Put(ctx context.Context, userID string, questions []models.QuizQuestion) error
	Get(ctx context.Context, userID string) ([]models.QuizQuestion, error)
	Delete(ctx context.Context, userID string) error
}
