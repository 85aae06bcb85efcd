// Package common defines shared constants and sentinel errors used across
// server and client layers of scenevault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Storage backend failed; never retried inside the scene store.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Stored bytes could not be parsed into a record or an index.
	ErrDecode = errors.New("decode error")

	// Validation errors.
	ErrInvalidIdentifier    = errors.New("invalid user ID or scene ID")
	ErrMissingEncryptionKey = errors.New("missing encryption key")
)
