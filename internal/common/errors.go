// Package common defines shared constants and sentinel errors used across
// the portal client and the dev server. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors caught client-side before any network call.
	ErrorGroupRequired = errors.New("at least one group must be selected")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
