package repositories

import "github.com/go-faster/errors"

var (
	// ErrNotFound is returned when a lookup by id (or unique key) matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would break a unique key.
	ErrDuplicate = errors.New("duplicate key")
)
