package errors

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")

	ErrTenantNotFound = errors.New("tenant not found")

	ErrInvalidID = errors.New("invalid catalog ID format")
)
