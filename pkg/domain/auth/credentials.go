// Package auth holds the transient values of a login attempt: the
// credentials typed by the user, the identity token handed out by the
// provider, and the errors each step of the attempt can end with.
package auth

import (
	"regexp"
)

const (
	MsgMissingFields = "Please fill in all fields."
	MsgInvalidEmail  = "Please enter a valid email address."
)

// emailPattern treats every Unicode space separator, \v and BOM as
// whitespace, not only the ASCII set RE2's \s covers.
var emailPattern = regexp.MustCompile(
	`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`,
)

// Credentials are the values of the login form.
type Credentials struct {
	Email    string
	Password string
}

// Validate reports a *ValidationError when a field is empty or the email
// does not look like local@domain.tld.
func (c Credentials) Validate() error {
	if c.Email == "" {
		return &ValidationError{Field: "email", Message: MsgMissingFields}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: MsgMissingFields}
	}
	if !IsEmail(c.Email) {
		return &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	return nil
}

// Valid is the boolean view of Validate.
func (c Credentials) Valid() bool {
	return c.Validate() == nil
}

// IsEmail matches the basic local@domain.tld shape the login form accepts.
func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}
