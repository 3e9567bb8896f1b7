package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
)

// UserRepository persists users in PostgreSQL through GORM. Selected when
// DATABASE_URL is configured.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Migrate creates the users table if it does not exist.
func (r *UserRepository) Migrate() error {
	return r.db.AutoMigrate(&models.User{})
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	// Check-then-insert is racy across replicas; the unique index on
	// username is the real guard, the pre-check just gives a clean error.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return repositories.ErrUserExists
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
