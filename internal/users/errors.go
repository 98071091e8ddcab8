package users

import "errors"

var (
	// ErrNotFound indicates no user matched the lookup.
	ErrNotFound = errors.New("users: not found")
	// ErrDuplicateEmail is returned when the unique email index rejects a write.
	ErrDuplicateEmail = errors.New("users: email already exists")
	// ErrInvalidFilter is returned for a list filter with a negative offset or limit.
	ErrInvalidFilter = errors.New("users: invalid list filter")
)
