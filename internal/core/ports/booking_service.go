package ports

import (
	"context"
	"time"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// CreateBookingInput carries all data needed to create a new booking.
type CreateBookingInput struct {
	ClientID       string
	ArtisanID      string
	ServiceType    *string
	Description    *string
	ScheduledDate  time.Time
	Address        string
	EstimatedHours *float64
	EstimatedPrice *float64
	IdempotencyKey string
}

// BookingResult is returned after creating a booking.
type BookingResult struct {
	Booking *domain.Booking
	// AlreadyExisted is true when the Idempotency-Key matched an earlier booking.
	AlreadyExisted bool
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

// IdempotencyStore remembers which booking a client's idempotency key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, clientID, key string) (string, bool, error)
	Remember(ctx context.Context, clientID, key, bookingID string) error
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*BookingResult, error)
	ListMine(ctx context.Context, actor Actor) ([]*domain.BookingView, error)
	Get(ctx context.Context, id, callerID string) (*domain.BookingView, error)
	UpdateStatus(ctx context.Context, id, artisanUserID string, next domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, id, clientID string) (*domain.Booking, error)
	SetFinalPrice(ctx context.Context, id, artisanUserID string, price float64) (*domain.Booking, error)
	History(ctx context.Context, id, callerID string) ([]*domain.BookingEvent, error)
}
