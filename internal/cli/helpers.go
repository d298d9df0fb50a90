package cli

import (
	"fmt"
	"regexp"

	"github.com/thenoetrevino/relabel/internal/models"
)

var labelKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateLabelKey checks that key looks like a label key (e.g. nav_home)
func ValidateLabelKey(key string) error {
	if !labelKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: label key must contain only letters, digits, '_', '.' or '-', got: %q", models.ErrInvalidArgument, key)
	}
	return nil
}

// ValidateLimit checks a history limit flag
func ValidateLimit(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: limit must be a positive integer, got: %d", models.ErrInvalidArgument, n)
	}
	return nil
}
