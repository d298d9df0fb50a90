package events

import (
	"errors"
	"net/http"
	"syscall"

	"github.com/gorilla/websocket"
)

// ErrorCode represents stream connection error types.
type ErrorCode int

const (
	ErrServerUnreachable ErrorCode = iota
	ErrConnectionRefused
	ErrUnauthorized
	ErrForbidden
)

// StreamError represents a structured connection error with context.
type StreamError struct {
	Code    ErrorCode
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

// ClassifyStreamError maps dial failures to structured StreamError types.
// resp is the handshake response returned by the dialer, if any.
func ClassifyStreamError(err error, resp *http.Response) *StreamError {
	if err == nil {
		return nil
	}

	if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return &StreamError{
				Code:    ErrUnauthorized,
				Message: "Token missing or invalid",
				Hint:    "Mint one with: relabel token --user <name> --role admin",
			}
		case http.StatusForbidden:
			return &StreamError{
				Code:    ErrForbidden,
				Message: "Token lacks the admin role",
				Hint:    "Mint one with: relabel token --user <name> --role admin",
			}
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return &StreamError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "Start the server: relabel serve",
		}
	}

	return &StreamError{
		Code:    ErrServerUnreachable,
		Message: "Event stream unreachable",
		Hint:    "Check --server and that relabel serve is running",
	}
}
