package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrTimeConflict = errors.New("booking time conflicts with existing booking")

	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	ErrInvalidTransition = errors.New("invalid booking status transition")
)
