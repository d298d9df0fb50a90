package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/models"
)

// ============================================================================
// Validation Tests
// ============================================================================

func TestValidateLabelKey(t *testing.T) {
	valid := []string{"nav_home", "about.title", "hero-cta", "A1"}
	for _, key := range valid {
		if err := ValidateLabelKey(key); err != nil {
			t.Errorf("Expected %q to be valid, got %v", key, err)
		}
	}

	invalid := []string{"", "nav home", "nav/home", "ключ"}
	for _, key := range invalid {
		err := ValidateLabelKey(key)
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("Expected %q to be invalid, got %v", key, err)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(1); err != nil {
		t.Errorf("Expected 1 to be valid, got %v", err)
	}
	for _, n := range []int{0, -5} {
		if err := ValidateLimit(n); !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("Expected %d to be invalid, got %v", n, err)
		}
	}
}

// ============================================================================
// Exit Code Mapping
// ============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"nil", nil, ExitSuccess, "REQUEST_FAILED"},
		{"not found", fmt.Errorf("get: %w", models.ErrLabelNotFound), ExitNotFound, "LABEL_NOT_FOUND"},
		{"invalid value", models.ErrInvalidValue, ExitValidation, "VALIDATION_ERROR"},
		{"api 404", &client.APIError{Status: 404, Message: "Label not found"}, ExitNotFound, "LABEL_NOT_FOUND"},
		{"api 401", &client.APIError{Status: 401}, ExitPermission, "UNAUTHORIZED"},
		{"api 403", &client.APIError{Status: 403}, ExitPermission, "FORBIDDEN"},
		{"other", errors.New("connection refused"), ExitError, "REQUEST_FAILED"},
		{"explicit status", &StatusError{Code: ExitUsage, Err: errors.New("usage")}, ExitUsage, "REQUEST_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.want)
			}
			if tt.err == nil {
				return
			}
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("ErrorCode() = %s, want %s", got, tt.code)
			}
		})
	}
}
