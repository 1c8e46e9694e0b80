// Package common defines shared constants and sentinel errors used across
// client and server layers of FoodShare. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("already exists")

	// Validation errors surfaced by service-side listing checks.
	ErrorInvalidListing = errors.New("invalid listing")

	// Transport errors (client side).
	ErrUnavailable = errors.New("server unavailable")

	// Storage degradation (client side): the local key/value store could
	// not be opened or written. Recoverable, never fatal.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
