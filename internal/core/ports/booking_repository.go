package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// BookingScope restricts a write to the booking's owner. Exactly one field is
// set. A booking outside the scope is reported as domain.ErrBookingNotFound,
// never as forbidden, so callers cannot probe ids they do not own.
type BookingScope struct {
	ClientID      string // the booking's client
	ArtisanUserID string // the user owning the booking's artisan profile
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	// Create inserts b only while its artisan is available; it returns
	// domain.ErrArtisanOffline otherwise.
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.BookingView, error)
	// FindForClient retrieves a booking only if clientID booked it.
	FindForClient(ctx context.Context, id, clientID string) (*domain.Booking, error)
	ListForClient(ctx context.Context, clientID string) ([]*domain.BookingView, error)
	ListForArtisanUser(ctx context.Context, userID string) ([]*domain.BookingView, error)
	// UpdateStatus sets next when the booking is inside scope and its current
	// status is one of from. Returns domain.ErrBookingNotFound when outside
	// scope and domain.ErrInvalidTransition when the status does not match.
	UpdateStatus(ctx context.Context, id string, scope BookingScope, next domain.BookingStatus, from []domain.BookingStatus) (*domain.Booking, error)
	SetFinalPrice(ctx context.Context, id string, scope BookingScope, price float64) (*domain.Booking, error)
}
