package user

import (
	"time"

	"github.com/casevault/casevault/pkg/domain/auth"
)

// User is the backend's record of an account that has completed a login
// hand-off. The identity provider owns the credentials; only facts taken
// from verified tokens are kept here.
type User struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	LastLoginAt   time.Time `json:"lastLoginAt"`
	CreatedAt     time.Time `json:"created"`
	UpdatedAt     time.Time `json:"updated"`
}

// FromClaims builds the record for a login observed at now.
func FromClaims(c *auth.Claims, now time.Time) *User {
	now = now.UTC()
	return &User{
		UID:           c.UID,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		LastLoginAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
