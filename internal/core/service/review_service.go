package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

type reviewService struct {
	reviews  ports.ReviewRepository
	bookings ports.BookingRepository
	log      zerolog.Logger
}

// NewReviewService returns a ReviewService implementation.
func NewReviewService(reviews ports.ReviewRepository, bookings ports.BookingRepository, log zerolog.Logger) ports.ReviewService {
	return &reviewService{reviews: reviews, bookings: bookings, log: log}
}

// Create rates a completed booking of the calling client. The unique index on
// the booking reference rejects a second review with domain.ErrReviewExists.
func (s *reviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.BookingID == "" {
		return nil, domain.Invalid("bookingId is required")
	}
	if !domain.ValidRating(in.Rating) {
		return nil, domain.Invalid("rating must be between 1 and 5")
	}

	booking, err := s.bookings.FindForClient(ctx, in.BookingID, in.ClientID)
	if err != nil {
		return nil, err
	}
	// completed is terminal, so this check cannot go stale before the insert.
	if booking.Status != domain.StatusCompleted {
		return nil, domain.ErrNotReviewable
	}

	review := &domain.Review{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		ClientID:  in.ClientID,
		ArtisanID: booking.ArtisanID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info().Str("review_id", review.ID).Str("booking_id", review.BookingID).Int("rating", review.Rating).Msg("review created")
	return review, nil
}

// ListForArtisan returns the reviews of an artisan and their aggregate. An
// unknown artisan yields an empty page.
func (s *reviewService) ListForArtisan(ctx context.Context, artisanID string) (*ports.ArtisanReviews, error) {
	views, err := s.reviews.ListForArtisan(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*domain.ReviewView{}
	}

	ratings := make([]int, 0, len(views))
	for _, v := range views {
		ratings = append(ratings, v.Rating)
	}

	return &ports.ArtisanReviews{
		Stats:   domain.SummarizeRatings(ratings),
		Reviews: views,
	}, nil
}

func (s *reviewService) ListMine(ctx context.Context, clientID string) ([]*domain.ReviewView, error) {
	views, err := s.reviews.ListForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*domain.ReviewView{}
	}
	return views, nil
}

func (s *reviewService) Update(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
	if in.Rating != nil && !domain.ValidRating(*in.Rating) {
		return nil, domain.Invalid("rating must be between 1 and 5")
	}

	review, err := s.reviews.Update(ctx, in.ReviewID, in.ClientID, in.Rating, in.Comment)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("review_id", review.ID).Msg("review updated")
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id, clientID string) error {
	if err := s.reviews.Delete(ctx, id, clientID); err != nil {
		return err
	}
	s.log.Info().Str("review_id", id).Msg("review deleted")
	return nil
}
