package user

import (
	"time"

	domainuser "github.com/casevault/casevault/pkg/domain/user"
)

// User is the users table row.
type User struct {
	UID           string `gorm:"primaryKey;size:128"`
	Email         string `gorm:"size:255;index"`
	EmailVerified bool
	LastLoginAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (User) TableName() string {
	return "users"
}

func toModel(u *domainuser.User) *User {
	return &User{
		UID:           u.UID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *User) toDomain() *domainuser.User {
	return &domainuser.User{
		UID:           m.UID,
		Email:         m.Email,
		EmailVerified: m.EmailVerified,
		LastLoginAt:   m.LastLoginAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
