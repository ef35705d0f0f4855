package crawler

import (
	"errors"
)

// Common error constants
var (
	// ErrUnknownProfile is returned when no profile is registered for a category
	ErrUnknownProfile = errors.New("no scraper profile registered")

	// ErrInvalidProfile is returned when a profile misses a selector or a builder
	ErrInvalidProfile = errors.New("invalid scraper profile")
)
