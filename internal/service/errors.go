package service

import "errors"

// Error taxonomy surfaced to the REST layer. Services wrap every failure
// onto exactly one of these sentinels; upstream causes are logged, never
// returned to callers.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)
