package models

import (
	"time"
)

// User is the only persistent entity in the system. The password hash is a
// bcrypt digest and is never serialized to clients.
type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `json:"-" gorm:"not null;size:255"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
