package user

import (
	"context"

	"github.com/casevault/casevault/pkg/domain/user"
)

// Repository stores the users that have completed a login hand-off.
type Repository interface {
	// Upsert inserts the user or refreshes email and last login of an
	// existing record with the same UID. CreatedAt is never overwritten.
	Upsert(ctx context.Context, u *user.User) error

	// Get retrieves a user by UID. It returns domain.ErrNotFound when
	// there is no such user.
	Get(ctx context.Context, uid string) (*user.User, error)
}
