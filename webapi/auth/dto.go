package auth

// LoginInput is the body the client relays after signing in with the
// identity provider.
type LoginInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// LoginOutput describes the verified account.
type LoginOutput struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}
