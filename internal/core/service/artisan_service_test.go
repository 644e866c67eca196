package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

func TestArtisanService_UpsertProfile_CreatesThenOverwrites(t *testing.T) {
	f := newFixture()
	user, created := f.artisan(t, "0600000002")

	if !created.Available {
		t.Fatal("new profile must be available")
	}

	bio := "20 years of pipes"
	updated, err := f.artisans.UpsertProfile(context.Background(), ports.ProfileInput{
		UserID:     user.ID,
		Profession: "electrician",
		City:       "Rabat",
		Bio:        &bio,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("second submission must update the same profile: %s != %s", updated.ID, created.ID)
	}
	if updated.Profession != "electrician" || updated.City != "Rabat" || updated.Bio == nil {
		t.Fatalf("fields not overwritten: %+v", updated)
	}
	if len(f.db.artisans) != 1 {
		t.Fatalf("expected exactly one profile, got %d", len(f.db.artisans))
	}
}

func TestArtisanService_UpsertProfile_Validation(t *testing.T) {
	f := newFixture()
	rate := -1.0

	cases := []ports.ProfileInput{
		{UserID: "u", City: "Rabat"},
		{UserID: "u", Profession: "plumber"},
		{UserID: "u", Profession: "  ", City: "Rabat"},
		{UserID: "u", Profession: "plumber", City: "Rabat", HourlyRate: &rate},
	}
	for _, in := range cases {
		if _, err := f.artisans.UpsertProfile(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestArtisanService_ToggleAvailability_TwiceRestores(t *testing.T) {
	f := newFixture()
	user, profile := f.artisan(t, "0600000002")

	first, err := f.artisans.ToggleAvailability(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	second, err := f.artisans.ToggleAvailability(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if first == profile.Available {
		t.Fatal("first toggle must flip availability")
	}
	if second != profile.Available {
		t.Fatal("second toggle must restore availability")
	}
}

func TestArtisanService_ToggleAvailability_NoProfile(t *testing.T) {
	f := newFixture()
	user := f.register(t, "0600000002", domain.RoleArtisan)

	if _, err := f.artisans.ToggleAvailability(context.Background(), user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArtisanService_Get_And_MyProfile(t *testing.T) {
	f := newFixture()
	user, profile := f.artisan(t, "0600000002")

	got, err := f.artisans.Get(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phone != "0600000002" {
		t.Fatalf("listing must carry owner contact, got %+v", got.Contact)
	}

	mine, err := f.artisans.MyProfile(context.Background(), user.ID)
	if err != nil || mine.ID != profile.ID {
		t.Fatalf("unexpected profile: %+v, %v", mine, err)
	}

	if _, err := f.artisans.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrArtisanNotFound) {
		t.Fatalf("expected ErrArtisanNotFound, got %v", err)
	}
	other := f.register(t, "0600000003", domain.RoleArtisan)
	if _, err := f.artisans.MyProfile(context.Background(), other.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArtisanService_List_Filters(t *testing.T) {
	f := newFixture()
	a1, _ := f.artisan(t, "0600000002")
	f.artisan(t, "0600000003")
	if _, err := f.artisans.ToggleAvailability(context.Background(), a1.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	all, err := f.artisans.List(context.Background(), ports.ArtisanFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 artisans, got %d (%v)", len(all), err)
	}

	available := true
	onlyAvailable, _ := f.artisans.List(context.Background(), ports.ArtisanFilter{Available: &available})
	if len(onlyAvailable) != 1 || onlyAvailable[0].UserID == a1.ID {
		t.Fatalf("unexpected available listing: %+v", onlyAvailable)
	}

	none, _ := f.artisans.List(context.Background(), ports.ArtisanFilter{Profession: "plumber", City: "Tangier"})
	if len(none) != 0 {
		t.Fatalf("filters must be combined with AND, got %d", len(none))
	}
}
