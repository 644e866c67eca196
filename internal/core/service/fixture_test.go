package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

type fixture struct {
	db       *memDB
	bookRepo *stubBookingRepo
	events   *stubEventRepo
	keys     *stubKeys

	tokens   *TokenIssuer
	auth     *AuthService
	artisans ports.ArtisanService
	bookings ports.BookingService
	reviews  ports.ReviewService
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:       db,
		bookRepo: &stubBookingRepo{db: db},
		events:   &stubEventRepo{},
		keys:     newStubKeys(),
		tokens:   NewTokenIssuer("secret", time.Hour),
	}
	log := zerolog.Nop()
	artisanRepo := &stubArtisanRepo{db: db}

	f.auth = NewAuthService(&stubUserRepo{db: db}, f.tokens, log)
	f.artisans = NewArtisanService(artisanRepo, log)
	f.bookings = NewBookingService(f.bookRepo, artisanRepo, f.events, f.keys, log)
	f.reviews = NewReviewService(&stubReviewRepo{db: db}, f.bookRepo, log)
	return f
}

func (f *fixture) register(t *testing.T, phone, role string) *domain.User {
	t.Helper()
	_, user, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Phone:    phone,
		Name:     "user " + phone,
		Password: "pass123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", phone, err)
	}
	return user
}

// artisan registers an artisan user with a plumber profile.
func (f *fixture) artisan(t *testing.T, phone string) (*domain.User, *domain.ArtisanProfile) {
	t.Helper()
	user := f.register(t, phone, domain.RoleArtisan)
	profile, err := f.artisans.UpsertProfile(context.Background(), ports.ProfileInput{
		UserID:     user.ID,
		Profession: "plumber",
		City:       "Casablanca",
	})
	if err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	return user, profile
}

func (f *fixture) book(t *testing.T, clientID, artisanID string) *domain.Booking {
	t.Helper()
	res, err := f.bookings.Create(context.Background(), ports.CreateBookingInput{
		ClientID:      clientID,
		ArtisanID:     artisanID,
		ScheduledDate: time.Now().Add(48 * time.Hour),
		Address:       "12 rue des Fleurs",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return res.Booking
}

// complete walks a booking through confirmed to completed.
func (f *fixture) complete(t *testing.T, bookingID, artisanUserID string) {
	t.Helper()
	for _, next := range []domain.BookingStatus{domain.StatusConfirmed, domain.StatusCompleted} {
		if _, err := f.bookings.UpdateStatus(context.Background(), bookingID, artisanUserID, next); err != nil {
			t.Fatalf("move to %s: %v", next, err)
		}
	}
}
