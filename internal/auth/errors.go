package auth

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/erazemk/imenik/internal/model"
)

// Failure codes reported by the authentication service.
const (
	CodeInvalidCredential = "auth/invalid-credential"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodePasswordTooLong   = "auth/password-too-long"
	CodeEmailInUse        = "auth/email-already-in-use"
)

// GenericMessage is shown for failures without a known code.
const GenericMessage = "Something went wrong. Please try again."

var messages = map[string]string{
	CodeInvalidCredential: "Incorrect email or password.",
	CodeInvalidEmail:      "The email address is not valid.",
	CodeWeakPassword:      "The password is too weak (it must be at least 6 characters).",
	CodeEmailInUse:        "That email address is already in use.",
	CodePasswordTooLong:   "The password is too long (at most 72 bytes).",
}

// Error is a classified authentication failure.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return "authentication failed: " + e.Code
}

// Message returns the user-facing text for an authentication failure. Errors
// that carry no known code get GenericMessage.
func Message(err error) string {
	var authErr *Error
	if errors.As(err, &authErr) {
		if msg, ok := messages[authErr.Code]; ok {
			return msg
		}
	}
	return GenericMessage
}

// Classify maps a validation error from the model package onto its code.
// Unrecognised errors are returned unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrInvalidEmail):
		return &Error{Code: CodeInvalidEmail}
	case errors.Is(err, model.ErrWeakPassword):
		return &Error{Code: CodeWeakPassword}
	case errors.Is(err, model.ErrPasswordTooLong):
		return &Error{Code: CodePasswordTooLong}
	}
	return err
}

// NormalizeEmail trims and case-folds an address so lookups match however the
// user typed it.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}
