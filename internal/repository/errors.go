package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleStatus indicates a compare-and-set status update lost a race:
	// the record's current status no longer matches the expected value.
	ErrStaleStatus = errors.New("complaint status changed concurrently")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)
