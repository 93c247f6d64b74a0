package services

import "errors"

// Error kinds the handlers map onto HTTP statuses. Ownership mismatch is
// deliberately distinct from absence: the caller learns the record exists
// but is not theirs.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotConfigured = errors.New("tracking not configured")
)
