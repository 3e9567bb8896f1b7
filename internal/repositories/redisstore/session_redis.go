package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
)

// sessionTTL bounds abandoned sessions; it matches the session token
// lifetime so an unscored quiz never outlives the login that created it.
const sessionTTL = 24 * time.Hour

// SessionRepository stores quiz sessions as JSON values in Redis. Selected
// when REDIS_URL is configured.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(userID string) string {
	return "quiz:session:" + userID
}

func (r *SessionRepository) Put(ctx context.Context, userID string, questions []models.QuizQuestion) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal quiz session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(userID), payload, sessionTTL).Err()
}

func (r *SessionRepository) Get(ctx context.Context, userID string) ([]models.QuizQuestion, error) {
	payload, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.ErrNoQuizSession
		}
		return nil, err
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal(payload, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal quiz session: %w", err)
	}
	return questions, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKey(userID)).Err()
}
