package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/erazemk/imenik/internal/auth"
	"github.com/erazemk/imenik/internal/client"
	"github.com/erazemk/imenik/internal/crm"
	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The operation failed (remote error, unknown id, ...)
	ExitCommandError = 2 // Bad flags or arguments
	ExitAuthError    = 3 // Not signed in or credentials rejected
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// describeError turns errors from the lower layers into messages meant for
// the person at the terminal.
func describeError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var authErr *auth.Error
	switch {
	case errors.As(err, &authErr):
		return NewExitError(ExitAuthError, auth.Message(err))
	case errors.Is(err, crm.ErrNotAuthenticated):
		return NewExitError(ExitAuthError, `not signed in, run "imenik signin" first`)
	case errors.Is(err, client.ErrUnauthorized):
		return NewExitError(ExitAuthError, `session expired or revoked, run "imenik signin" again`)
	case errors.Is(err, model.ErrNameRequired):
		return NewExitError(ExitCommandError, "a name is required")
	case errors.Is(err, docstore.ErrPermissionDenied):
		return NewExitError(ExitFailure, "permission denied")
	case errors.Is(err, docstore.ErrNotFound):
		return NewExitError(ExitFailure, "not found (it may have been deleted)")
	}
	return &ExitError{Code: ExitFailure, Err: err}
}

func errorCode(err error) string {
	switch GetExitCode(err) {
	case ExitCommandError:
		return "usage"
	case ExitAuthError:
		return "auth"
	}
	return "failed"
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success outputs data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data any, text func(io.Writer) error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	_, err := fmt.Fprintf(f.Writer, "Error: %s\n", message)
	return err
}
