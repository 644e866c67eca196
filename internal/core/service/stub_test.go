package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories. Each stub applies the same
// ownership scopes and conditional writes as the SQL repositories.
// ---------------------------------------------------------------------------

type memDB struct {
	users    map[string]*domain.User
	artisans map[string]*domain.ArtisanProfile
	bookings map[string]*domain.Booking
	reviews  map[string]*domain.Review
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[string]*domain.User),
		artisans: make(map[string]*domain.ArtisanProfile),
		bookings: make(map[string]*domain.Booking),
		reviews:  make(map[string]*domain.Review),
	}
}

func (db *memDB) contact(userID string) domain.Contact {
	u := db.users[userID]
	if u == nil {
		return domain.Contact{}
	}
	return domain.Contact{Name: u.Name, Phone: u.Phone, Email: u.Email}
}

func (db *memDB) listing(p *domain.ArtisanProfile) *domain.ArtisanListing {
	var ratings []int
	for _, r := range db.reviews {
		if r.ArtisanID == p.ID {
			ratings = append(ratings, r.Rating)
		}
	}
	stats := domain.SummarizeRatings(ratings)

	clone := *p
	clone.Rating = stats.AverageRating
	clone.TotalReviews = stats.TotalReviews
	return &domain.ArtisanListing{ArtisanProfile: clone, Contact: db.contact(p.UserID)}
}

func (db *memDB) artisanOf(userID string) *domain.ArtisanProfile {
	for _, p := range db.artisans {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (db *memDB) inScope(b *domain.Booking, scope ports.BookingScope) bool {
	if scope.ClientID != "" {
		return b.ClientID == scope.ClientID
	}
	p := db.artisans[b.ArtisanID]
	return p != nil && scope.ArtisanUserID != "" && p.UserID == scope.ArtisanUserID
}

// ── users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct{ db *memDB }

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.db.users {
		if u.Phone == user.Phone {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	clone.ID = uuid.NewString()
	r.db.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.db.users {
		if u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// ── artisans ─────────────────────────────────────────────────────────────────

type stubArtisanRepo struct{ db *memDB }

func (r *stubArtisanRepo) Upsert(_ context.Context, p *domain.ArtisanProfile) (*domain.ArtisanProfile, error) {
	now := time.Now().UTC()
	if existing := r.db.artisanOf(p.UserID); existing != nil {
		id, available, created := existing.ID, existing.Available, existing.CreatedAt
		*existing = *p
		existing.ID = id
		existing.Available = available
		existing.CreatedAt = created
		existing.UpdatedAt = now
		clone := *existing
		return &clone, nil
	}

	clone := *p
	clone.ID = uuid.NewString()
	clone.Available = true
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.db.artisans[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubArtisanRepo) List(_ context.Context, f ports.ArtisanFilter) ([]*domain.ArtisanListing, error) {
	var out []*domain.ArtisanListing
	for _, p := range r.db.artisans {
		l := r.db.listing(p)
		if f.Profession != "" && l.Profession != f.Profession {
			continue
		}
		if f.City != "" && l.City != f.City {
			continue
		}
		if f.MinRating != nil && l.Rating < *f.MinRating {
			continue
		}
		if f.Available != nil && l.Available != *f.Available {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].TotalReviews > out[j].TotalReviews
	})
	return out, nil
}

func (r *stubArtisanRepo) FindByID(_ context.Context, id string) (*domain.ArtisanListing, error) {
	p, ok := r.db.artisans[id]
	if !ok {
		return nil, domain.ErrArtisanNotFound
	}
	return r.db.listing(p), nil
}

func (r *stubArtisanRepo) FindByUserID(_ context.Context, userID string) (*domain.ArtisanListing, error) {
	p := r.db.artisanOf(userID)
	if p == nil {
		return nil, domain.ErrArtisanNotFound
	}
	return r.db.listing(p), nil
}

func (r *stubArtisanRepo) ToggleAvailability(_ context.Context, userID string) (bool, error) {
	p := r.db.artisanOf(userID)
	if p == nil {
		return false, domain.ErrArtisanNotFound
	}
	p.Available = !p.Available
	return p.Available, nil
}

// ── bookings ─────────────────────────────────────────────────────────────────

type stubBookingRepo struct {
	db        *memDB
	createErr error // if set, Create returns this error
	creates   int
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	p, ok := r.db.artisans[b.ArtisanID]
	if !ok || !p.Available {
		return domain.ErrArtisanOffline
	}
	clone := *b
	r.db.bookings[b.ID] = &clone
	r.creates++
	return nil
}

func (r *stubBookingRepo) view(b *domain.Booking) *domain.BookingView {
	v := &domain.BookingView{Booking: *b}
	client := r.db.contact(b.ClientID)
	v.Client = &client
	if p := r.db.artisans[b.ArtisanID]; p != nil {
		v.Artisan = &domain.BookingArtisan{
			UserID:          p.UserID,
			Profession:      p.Profession,
			HourlyRate:      p.HourlyRate,
			ProfileImageURL: p.ProfileImageURL,
			Contact:         r.db.contact(p.UserID),
		}
	}
	return v
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.BookingView, error) {
	b, ok := r.db.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return r.view(b), nil
}

func (r *stubBookingRepo) FindForClient(_ context.Context, id, clientID string) (*domain.Booking, error) {
	b, ok := r.db.bookings[id]
	if !ok || b.ClientID != clientID {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) list(keep func(*domain.Booking) bool) []*domain.BookingView {
	out := []*domain.BookingView{}
	for _, b := range r.db.bookings {
		if keep(b) {
			out = append(out, r.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.After(out[j].ScheduledDate) })
	return out
}

func (r *stubBookingRepo) ListForClient(_ context.Context, clientID string) ([]*domain.BookingView, error) {
	return r.list(func(b *domain.Booking) bool { return b.ClientID == clientID }), nil
}

func (r *stubBookingRepo) ListForArtisanUser(_ context.Context, userID string) ([]*domain.BookingView, error) {
	return r.list(func(b *domain.Booking) bool {
		p := r.db.artisans[b.ArtisanID]
		return p != nil && p.UserID == userID
	}), nil
}

func (r *stubBookingRepo) UpdateStatus(_ context.Context, id string, scope ports.BookingScope, next domain.BookingStatus, from []domain.BookingStatus) (*domain.Booking, error) {
	b, ok := r.db.bookings[id]
	if !ok || !r.db.inScope(b, scope) {
		return nil, domain.ErrBookingNotFound
	}
	allowed := false
	for _, s := range from {
		if b.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return nil, domain.ErrInvalidTransition
	}
	b.Status = next
	b.UpdatedAt = time.Now().UTC()
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) SetFinalPrice(_ context.Context, id string, scope ports.BookingScope, price float64) (*domain.Booking, error) {
	b, ok := r.db.bookings[id]
	if !ok || !r.db.inScope(b, scope) {
		return nil, domain.ErrBookingNotFound
	}
	b.FinalPrice = &price
	clone := *b
	return &clone, nil
}

// ── reviews ──────────────────────────────────────────────────────────────────

type stubReviewRepo struct{ db *memDB }

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	for _, existing := range r.db.reviews {
		if existing.BookingID == rv.BookingID {
			return domain.ErrReviewExists
		}
	}
	clone := *rv
	r.db.reviews[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) list(keep func(*domain.Review) bool) []*domain.ReviewView {
	out := []*domain.ReviewView{}
	for _, rv := range r.db.reviews {
		if !keep(rv) {
			continue
		}
		v := &domain.ReviewView{Review: *rv, ClientName: r.db.contact(rv.ClientID).Name}
		if b := r.db.bookings[rv.BookingID]; b != nil {
			v.ServiceType = b.ServiceType
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubReviewRepo) ListForArtisan(_ context.Context, artisanID string) ([]*domain.ReviewView, error) {
	return r.list(func(rv *domain.Review) bool { return rv.ArtisanID == artisanID }), nil
}

func (r *stubReviewRepo) ListForClient(_ context.Context, clientID string) ([]*domain.ReviewView, error) {
	return r.list(func(rv *domain.Review) bool { return rv.ClientID == clientID }), nil
}

func (r *stubReviewRepo) Update(_ context.Context, id, clientID string, rating *int, comment *string) (*domain.Review, error) {
	rv, ok := r.db.reviews[id]
	if !ok || rv.ClientID != clientID {
		return nil, domain.ErrReviewNotFound
	}
	if rating != nil {
		rv.Rating = *rating
	}
	if comment != nil {
		rv.Comment = comment
	}
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id, clientID string) error {
	rv, ok := r.db.reviews[id]
	if !ok || rv.ClientID != clientID {
		return domain.ErrReviewNotFound
	}
	delete(r.db.reviews, id)
	return nil
}

// ── audit trail and idempotency ──────────────────────────────────────────────

type stubEventRepo struct {
	events    []*domain.BookingEvent
	insertErr error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.BookingEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *e
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubEventRepo) ListEvents(_ context.Context, bookingID string) ([]*domain.BookingEvent, error) {
	out := []*domain.BookingEvent{}
	for _, e := range r.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubKeys struct {
	keys      map[string]string
	lookupErr error
}

func newStubKeys() *stubKeys {
	return &stubKeys{keys: make(map[string]string)}
}

func (k *stubKeys) Lookup(_ context.Context, clientID, key string) (string, bool, error) {
	if k.lookupErr != nil {
		return "", false, k.lookupErr
	}
	id, ok := k.keys[clientID+"|"+key]
	return id, ok, nil
}

func (k *stubKeys) Remember(_ context.Context, clientID, key, bookingID string) error {
	k.keys[clientID+"|"+key] = bookingID
	return nil
}

var errStoreDown = errors.New("store unavailable")
