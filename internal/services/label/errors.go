package label

import (
	"fmt"

	"github.com/thenoetrevino/relabel/internal/models"
)

// Label-related errors
var (
	// Validation errors
	ErrEmptyKey   = fmt.Errorf("%w: label key is required", models.ErrInvalidArgument)
	ErrEmptyActor = fmt.Errorf("%w: actor is required", models.ErrInvalidArgument)
	ErrEmptyQuery = fmt.Errorf("%w: search query is required", models.ErrInvalidArgument)

	// Business logic errors
	ErrLabelNotFound = models.ErrLabelNotFound
)
