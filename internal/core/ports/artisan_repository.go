package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// ArtisanFilter carries the optional listing filters. Nil/empty fields are
// not applied; supplied ones are combined with AND.
type ArtisanFilter struct {
	Profession string
	City       string
	MinRating  *float64
	Available  *bool
}

// ArtisanRepository defines persistence operations for artisan profiles.
type ArtisanRepository interface {
	// Upsert inserts the profile for p.UserID or overwrites every mutable
	// field of the existing one.
	Upsert(ctx context.Context, p *domain.ArtisanProfile) (*domain.ArtisanProfile, error)
	List(ctx context.Context, filter ArtisanFilter) ([]*domain.ArtisanListing, error)
	FindByID(ctx context.Context, id string) (*domain.ArtisanListing, error)
	FindByUserID(ctx context.Context, userID string) (*domain.ArtisanListing, error)
	// ToggleAvailability flips the flag in one statement and returns the new value.
	ToggleAvailability(ctx context.Context, userID string) (bool, error)
}
