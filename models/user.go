package models

import (
	"time"
)

// User represents an account that can own projects and be assigned tasks
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:254"`
	Name      string    `json:"name" gorm:"size:150"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never exposed
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName returns the name if set, otherwise the username
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
