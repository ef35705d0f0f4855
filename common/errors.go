package common

import (
	"errors"
)

// Common error constants
var (
	// ErrInvalidConfig is returned when an invalid configuration is provided
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownCategory is returned for a category outside visa/job/housing/healthcare/banking
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNotFound is returned when a lookup matches nothing
	ErrNotFound = errors.New("not found")
)
