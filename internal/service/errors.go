package service

import (
	"errors"
	"fmt"
)

var (
	ErrConflict     = errors.New("user already exists")
	ErrNotFound     = errors.New("user not found")
	ErrNoChange     = errors.New("no changes made")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("invalid token")
)

// GenerationErrorKind classifies why the generator call failed.
type GenerationErrorKind string

const (
	// GenerationUnavailable covers transport failures, timeouts and provider 5xx.
	GenerationUnavailable GenerationErrorKind = "unavailable"
	// GenerationRateLimited covers provider 429 and quota exhaustion.
	GenerationRateLimited GenerationErrorKind = "rate_limited"
	// GenerationRejected covers provider 4xx and blocked prompts.
	GenerationRejected GenerationErrorKind = "rejected"
	// GenerationEmpty means the provider answered without any text.
	GenerationEmpty GenerationErrorKind = "empty"
)

// GenerationError is returned by a Generator when no recommendation text
// could be produced.
type GenerationError struct {
	Provider string
	Kind     GenerationErrorKind
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("AI error (%s, %s): %v", e.Provider, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying later could succeed.
func (e *GenerationError) Transient() bool {
	return e.Kind == GenerationUnavailable || e.Kind == GenerationRateLimited
}

// kindForStatus maps a provider HTTP status to a GenerationErrorKind.
func kindForStatus(status int) GenerationErrorKind {
	switch {
	case status == 429:
		return GenerationRateLimited
	case status >= 500:
		return GenerationUnavailable
	default:
		return GenerationRejected
	}
}
