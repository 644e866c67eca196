package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// CreateReviewInput is the review form submitted by a client.
type CreateReviewInput struct {
	ClientID  string
	BookingID string
	Rating    int
	Comment   *string
}

// UpdateReviewInput carries a partial update; nil fields keep their value.
type UpdateReviewInput struct {
	ReviewID string
	ClientID string
	Rating   *int
	Comment  *string
}

// ArtisanReviews is the public review page of an artisan.
type ArtisanReviews struct {
	Stats   domain.RatingSummary
	Reviews []*domain.ReviewView
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create inserts r. Returns domain.ErrReviewExists when the booking is
	// already reviewed.
	Create(ctx context.Context, r *domain.Review) error
	ListForArtisan(ctx context.Context, artisanID string) ([]*domain.ReviewView, error)
	ListForClient(ctx context.Context, clientID string) ([]*domain.ReviewView, error)
	// Update applies the non-nil fields to the review owned by clientID.
	Update(ctx context.Context, id, clientID string, rating *int, comment *string) (*domain.Review, error)
	Delete(ctx context.Context, id, clientID string) error
}

// ReviewService processes review use cases.
type ReviewService interface {
	Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	ListForArtisan(ctx context.Context, artisanID string) (*ArtisanReviews, error)
	ListMine(ctx context.Context, clientID string) ([]*domain.ReviewView, error)
	Update(ctx context.Context, in UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id, clientID string) error
}
