// Package common defines shared constants and sentinel errors used across
// the GoTube backend layers. Callers should use errors.Is to match these
// values; the HTTP layer maps them onto status codes and the response
// envelope.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorValidation         = errors.New("validation error")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Dependency errors (media host upload failed).
	ErrorDependency = errors.New("dependency failure")

	// Auth errors (invalid, expired or malformed token — deliberately one
	// value, so callers cannot tell which check failed).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. A presented refresh token that does not match
	// the stored one means it was already rotated or revoked.
	ErrTokenReuse = errors.New("refresh token expired or already used")
)
