package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/studysphere/study-service/internal/auth"
	"github.com/studysphere/study-service/internal/events"
	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
	"github.com/studysphere/study-service/internal/utils"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// AuthService registers users and exchanges credentials for session tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	users     repositories.UserRepository
	tokens    *auth.TokenManager
	publisher events.Publisher
	logger    utils.Logger
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.TokenManager,
	publisher events.Publisher,
	logger utils.Logger,
) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) error {
	if len(username) < minUsernameLen || len(password) < minPasswordLen {
		return ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserExists) {
			s.logger.WarnContext(ctx, "attempt to register existing user", "username", username)
			return ErrUserExists
		}
		return fmt.Errorf("store user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "username", username)
	s.publishEvent(ctx, events.NewEvent(events.EventUserRegistered, events.UserRegisteredEvent{
		Username: username,
	}))
	return nil
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "invalid login attempt", "username", username)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.WarnContext(ctx, "invalid login attempt", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "username", username)
	return token, nil
}

func (s *authService) publishEvent(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event publish failed", "event_type", event.Type, "error", err)
	}
}
