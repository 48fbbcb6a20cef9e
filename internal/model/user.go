package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Password length limits in bytes. bcrypt ignores input past 72 bytes and
// refuses to hash it.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

var (
	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrPasswordTooLong is returned for passwords over MaxPasswordLength bytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrInvalidEmail is returned for anything that is not a bare address.
	ErrInvalidEmail = errors.New("email address is not valid")
)

// User is an account of the authentication service.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidatePassword checks the sign-up password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateEmail accepts a bare address such as "ana@example.com".
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	domain := addr.Address[strings.LastIndexByte(addr.Address, '@')+1:]
	if !strings.Contains(domain, ".") {
		return ErrInvalidEmail
	}
	return nil
}
