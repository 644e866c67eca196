package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// BookingEventRepository persists the booking audit trail.
type BookingEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.BookingEvent) error
	// ListEvents returns a booking's events oldest first.
	ListEvents(ctx context.Context, bookingID string) ([]*domain.BookingEvent, error)
}
