package cli

import (
	"errors"

	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, unexpected failures.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested label was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable seed files, undecodable server responses.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty label values, malformed keys, bad limits.
	ExitValidation = 5

	// ExitPermission indicates the server rejected the token.
	ExitPermission = 6
)

// StatusError carries a process exit code out of a command
type StatusError struct {
	Code     int
	Err      error
	reported bool
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Reported is true when the error was already printed by the formatter
func (e *StatusError) Reported() bool {
	return e.reported
}

// ExitCodeFor maps an error to the exit code the process should use
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}

	switch {
	case errors.Is(err, models.ErrLabelNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrInvalidArgument):
		return ExitValidation
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		return ExitPermission
	}
	return ExitError
}

// ErrorCode returns the machine-readable code used in JSON error output
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrLabelNotFound):
		return "LABEL_NOT_FOUND"
	case errors.Is(err, models.ErrInvalidArgument):
		return "VALIDATION_ERROR"
	case errors.Is(err, client.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, client.ErrForbidden):
		return "FORBIDDEN"
	}
	return "REQUEST_FAILED"
}

func suggestionFor(err error) string {
	switch {
	case errors.Is(err, models.ErrLabelNotFound):
		return "run 'relabel search <text>' to find the label key"
	case errors.Is(err, client.ErrUnauthorized):
		return "mint a token with 'relabel token --user <name>' and pass it with --token"
	case errors.Is(err, client.ErrForbidden):
		return "the token needs the admin role"
	}
	return ""
}
