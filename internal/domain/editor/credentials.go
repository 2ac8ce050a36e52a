package editor

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors.
var (
	ErrMissingFields    = errors.New("username and password are required")
	ErrWrongCredentials = errors.New("invalid credentials")
)

// Credentials holds the single configured editor identity.
// PasswordHash is a bcrypt hash; when empty, Password is compared as
// plaintext (initial-setup fallback, before a hash has been configured).
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Verify checks a login attempt against the configured credentials.
// A wrong username and a wrong password both yield ErrWrongCredentials;
// callers must not distinguish the two.
// PRE: none
// POST: returns nil only for a matching username and password
// INVARIANT: Credentials fields are not mutated
func (c Credentials) Verify(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	if c.PasswordHash == "" {
		passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
		if usernameOK && passwordOK {
			return nil
		}
		return ErrWrongCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil || !usernameOK {
		return ErrWrongCredentials
	}
	return nil
}
