package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound  = errors.New("session not found")
	ErrCapacity  = errors.New("session capacity reached")
	ErrDuplicate = errors.New("session already exists")
)
