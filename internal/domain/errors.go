package domain

import "errors"

var (
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStoreUnavailable indicates the knowledge store is not configured
	ErrStoreUnavailable = errors.New("knowledge store unavailable")
)
