package memory

import (
	"context"
	"sync"

	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
)

// SessionRepository keeps quiz sessions in a mutex-guarded map. Concurrent
// generation calls for the same user resolve last-write-wins.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]models.QuizQuestion
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string][]models.QuizQuestion),
	}
}

func (r *SessionRepository) Put(ctx context.Context, userID string, questions []models.QuizQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]models.QuizQuestion, len(questions))
	copy(stored, questions)
	r.sessions[userID] = stored
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) ([]models.QuizQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	questions, exists := r.sessions[userID]
	if !exists {
		return nil, repositories.ErrNoQuizSession
	}

	out := make([]models.QuizQuestion, len(questions))
	copy(out, questions)
	return out, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
	return nil
}
