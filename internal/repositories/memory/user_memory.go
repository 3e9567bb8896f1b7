package memory

import (
	"context"
	"sync"
	"time"

	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
)

// UserRepository is the default process-resident user store. State does not
// survive a restart.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	nextID uint
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[string]*models.User),
		nextID: 1,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return repositories.ErrUserExists
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, repositories.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}
