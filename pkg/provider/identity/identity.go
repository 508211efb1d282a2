// Package identity abstracts the external identity provider the login
// screen signs users in with.
package identity

import (
	"context"

	"github.com/casevault/casevault/pkg/domain/auth"
)

// Authenticator signs a user in with email and password. Implementations
// return the provider session only; they make no navigation or relay
// decisions. Errors carry a message fit for showing to the user.
type Authenticator interface {
	AuthenticateWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, email, password string) (*auth.Session, error)

func (f AuthenticatorFunc) AuthenticateWithPassword(
	ctx context.Context,
	email, password string,
) (*auth.Session, error) {
	return f(ctx, email, password)
}
