package auth

import "log/slog"

const redacted = "[REDACTED]"

// IdentityToken is the short-lived bearer credential issued by the
// identity provider. Its printed and logged forms are redacted.
type IdentityToken string

func (t IdentityToken) String() string {
	if t == "" {
		return ""
	}
	return redacted
}

// GoString keeps %#v from leaking the token.
func (t IdentityToken) GoString() string {
	return t.String()
}

func (t IdentityToken) LogValue() slog.Value {
	return slog.StringValue(t.String())
}

// Reveal returns the raw token for the one place that must send it.
func (t IdentityToken) Reveal() string {
	return string(t)
}

func (t IdentityToken) Empty() bool {
	return t == ""
}

// Session is what the identity provider returns after a successful
// password sign-in.
type Session struct {
	UserID       string
	Email        string
	Token        IdentityToken
	RefreshToken IdentityToken
	ExpiresIn    int
}
