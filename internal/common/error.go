// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Session token errors (invalid or malformed vs. naturally expired,
	// so callers can answer "log in again" vs. "request a new link").
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Reset token lookup found no matching account.
	ErrNoSuchToken = errors.New("no such reset token")

	// A rating for the (sender, recipient) pair already exists.
	ErrDuplicateRating = errors.New("duplicate rating")

	// The cascade removing an account could not complete; nothing was deleted.
	ErrDeletionFailed = errors.New("account deletion failed")

	// The mail collaborator failed; an already-issued reset token stays valid.
	ErrEmailDeliveryFailed = errors.New("email delivery failed")
)
