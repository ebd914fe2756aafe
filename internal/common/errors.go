// Package common defines sentinel errors shared by the storage, service and
// CLI layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorStorage  = errors.New("storage unavailable")

	// Service-level errors.
	ErrorInvalidValue = errors.New("invalid value")
	ErrorClipboard    = errors.New("clipboard unavailable")
	ErrorCancelled    = errors.New("cancelled by user")
)
