package storage

import "errors"

var (
	// ErrAlreadyCompleted signals a duplicate completion for a habit and day.
	// Callers treat it as success.
	ErrAlreadyCompleted = errors.New("habit already completed for this day")
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrNotInitialized   = errors.New("storage not initialized")
)
