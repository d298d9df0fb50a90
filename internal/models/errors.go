package models

import (
	"errors"
	"fmt"
)

// Domain errors shared by the label store, history ledger and mutation service.
// Callers match them with errors.Is.
var (
	// ErrInvalidArgument indicates a missing or empty required field
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidValue indicates an empty replacement value for a label
	ErrInvalidValue = fmt.Errorf("%w: label value is required", ErrInvalidArgument)

	// ErrLabelNotFound indicates no label matched the key, exactly or by substring
	ErrLabelNotFound = errors.New("label not found")
)
