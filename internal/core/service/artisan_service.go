package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

type artisanService struct {
	repo ports.ArtisanRepository
	log  zerolog.Logger
}

// NewArtisanService returns an ArtisanService implementation.
func NewArtisanService(repo ports.ArtisanRepository, log zerolog.Logger) ports.ArtisanService {
	return &artisanService{repo: repo, log: log}
}

// UpsertProfile creates the caller's profile or overwrites every field of the
// existing one. Availability is left as stored.
func (s *artisanService) UpsertProfile(ctx context.Context, in ports.ProfileInput) (*domain.ArtisanProfile, error) {
	profession := strings.TrimSpace(in.Profession)
	city := strings.TrimSpace(in.City)
	if profession == "" || city == "" {
		return nil, domain.Invalid("profession and city are required")
	}
	if in.HourlyRate != nil && *in.HourlyRate < 0 {
		return nil, domain.Invalid("hourly rate must not be negative")
	}
	if in.ExperienceYears != nil && *in.ExperienceYears < 0 {
		return nil, domain.Invalid("experience years must not be negative")
	}

	profile, err := s.repo.Upsert(ctx, &domain.ArtisanProfile{
		UserID:          in.UserID,
		Profession:      profession,
		Bio:             in.Bio,
		HourlyRate:      in.HourlyRate,
		ExperienceYears: in.ExperienceYears,
		City:            city,
		Address:         in.Address,
		ProfileImageURL: in.ProfileImageURL,
		Available:       true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("artisan_id", profile.ID).Str("user_id", in.UserID).Msg("artisan profile saved")
	return profile, nil
}

func (s *artisanService) List(ctx context.Context, filter ports.ArtisanFilter) ([]*domain.ArtisanListing, error) {
	filter.Profession = strings.TrimSpace(filter.Profession)
	filter.City = strings.TrimSpace(filter.City)
	return s.repo.List(ctx, filter)
}

func (s *artisanService) Get(ctx context.Context, id string) (*domain.ArtisanListing, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *artisanService) MyProfile(ctx context.Context, userID string) (*domain.ArtisanListing, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *artisanService) ToggleAvailability(ctx context.Context, userID string) (bool, error) {
	available, err := s.repo.ToggleAvailability(ctx, userID)
	if err != nil {
		return false, err
	}
	s.log.Info().Str("user_id", userID).Bool("available", available).Msg("availability toggled")
	return available, nil
}
