package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps each kind to one status code; entity
// specific errors below wrap a kind so errors.Is matches on both.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnavailable        = errors.New("unavailable")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrUserExists      = fmt.Errorf("%w: phone number already registered", ErrConflict)
	ErrArtisanNotFound = fmt.Errorf("artisan %w", ErrNotFound)
	ErrArtisanOffline  = fmt.Errorf("artisan is not available: %w", ErrUnavailable)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("review %w", ErrNotFound)
	ErrReviewExists    = fmt.Errorf("%w: review already exists for this booking", ErrConflict)
	ErrNotReviewable   = fmt.Errorf("%w: can only review completed bookings", ErrInvalidState)
)

// Invalid returns an ErrInvalidInput carrying msg.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
