package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studysphere/study-service/internal/auth"
	"github.com/studysphere/study-service/internal/events"
	"github.com/studysphere/study-service/internal/repositories/memory"
	"github.com/studysphere/study-service/internal/utils"
)

func newTestAuthService(t *testing.T) (AuthService, *auth.TokenManager, *events.MockPublisher) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret")
	publisher := events.NewMockPublisher()
	svc := NewAuthService(memory.NewUserRepository(), tokens, publisher, utils.NewDevelopmentLogger())
	return svc, tokens, publisher
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _, publisher := newTestAuthService(t)
		require.NoError(t, svc.Register(ctx, "alice", "secret1"))

		published := publisher.PublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventUserRegistered, published[0].Type)
	})

	t.Run("duplicate username fails regardless of password", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		require.NoError(t, svc.Register(ctx, "alice", "secret1"))
		assert.ErrorIs(t, svc.Register(ctx, "alice", "different-password"), ErrUserExists)
	})

	t.Run("short username", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		assert.ErrorIs(t, svc.Register(ctx, "al", "secret1"), ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		assert.ErrorIs(t, svc.Register(ctx, "alice", "short"), ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a token bound to the user", func(t *testing.T) {
		svc, tokens, _ := newTestAuthService(t)
		require.NoError(t, svc.Register(ctx, "alice", "secret1"))

		token, err := svc.Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", tokens.Validate(token))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		require.NoError(t, svc.Register(ctx, "alice", "secret1"))

		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user is indistinguishable from wrong password", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, err := svc.Login(ctx, "nobody", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
