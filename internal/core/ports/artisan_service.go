package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// ProfileInput is the artisan profile form. Optional fields left nil are
// stored as NULL: a submission replaces the whole profile.
type ProfileInput struct {
	UserID          string
	Profession      string
	Bio             *string
	HourlyRate      *float64
	ExperienceYears *int
	City            string
	Address         *string
	ProfileImageURL *string
}

type ArtisanService interface {
	UpsertProfile(ctx context.Context, in ProfileInput) (*domain.ArtisanProfile, error)
	List(ctx context.Context, filter ArtisanFilter) ([]*domain.ArtisanListing, error)
	Get(ctx context.Context, id string) (*domain.ArtisanListing, error)
	MyProfile(ctx context.Context, userID string) (*domain.ArtisanListing, error)
	ToggleAvailability(ctx context.Context, userID string) (bool, error)
}
