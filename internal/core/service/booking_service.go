package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

type bookingService struct {
	bookings ports.BookingRepository
	artisans ports.ArtisanRepository
	events   ports.BookingEventRepository
	keys     ports.IdempotencyStore
	log      zerolog.Logger
	now      func() time.Time
}

// NewBookingService returns a BookingService implementation. keys may be nil,
// in which case Idempotency-Key headers are ignored.
func NewBookingService(
	bookings ports.BookingRepository,
	artisans ports.ArtisanRepository,
	events ports.BookingEventRepository,
	keys ports.IdempotencyStore,
	log zerolog.Logger,
) ports.BookingService {
	return &bookingService{
		bookings: bookings,
		artisans: artisans,
		events:   events,
		keys:     keys,
		log:      log,
		now:      time.Now,
	}
}

// Create books an available artisan. If the client already used the same
// idempotency key, the earlier booking is returned without side effects.
func (s *bookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingResult, error) {
	address := strings.TrimSpace(in.Address)
	if in.ArtisanID == "" || in.ScheduledDate.IsZero() || address == "" {
		return nil, domain.Invalid("artisanId, scheduledDate and address are required")
	}
	if negative(in.EstimatedHours) || negative(in.EstimatedPrice) {
		return nil, domain.Invalid("estimates must not be negative")
	}

	if existing := s.replay(ctx, in.ClientID, in.IdempotencyKey); existing != nil {
		return &ports.BookingResult{Booking: existing, AlreadyExisted: true}, nil
	}

	artisan, err := s.artisans.FindByID(ctx, in.ArtisanID)
	if err != nil {
		return nil, err
	}
	if !artisan.Available {
		return nil, domain.ErrArtisanOffline
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:             uuid.NewString(),
		ClientID:       in.ClientID,
		ArtisanID:      in.ArtisanID,
		ServiceType:    in.ServiceType,
		Description:    in.Description,
		ScheduledDate:  in.ScheduledDate.UTC(),
		Address:        address,
		EstimatedHours: in.EstimatedHours,
		EstimatedPrice: in.EstimatedPrice,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// The insert re-checks availability, so a toggle racing this call still
	// yields ErrArtisanOffline.
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.keys != nil {
		if err := s.keys.Remember(ctx, in.ClientID, in.IdempotencyKey, booking.ID); err != nil {
			s.log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to store idempotency key")
		}
	}

	s.record(ctx, booking.ID, booking.Status, in.ClientID, domain.RoleClient)
	s.log.Info().Str("booking_id", booking.ID).Str("client_id", in.ClientID).Str("artisan_id", in.ArtisanID).Msg("booking created")

	return &ports.BookingResult{Booking: booking}, nil
}

// replay returns the booking an idempotency key already produced, or nil.
// Store failures are logged and treated as a miss.
func (s *bookingService) replay(ctx context.Context, clientID, key string) *domain.Booking {
	if key == "" || s.keys == nil {
		return nil
	}

	bookingID, ok, err := s.keys.Lookup(ctx, clientID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}

	existing, err := s.bookings.FindForClient(ctx, bookingID, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("booking_id", bookingID).Msg("idempotency key points to unreadable booking")
		return nil
	}

	s.log.Info().Str("booking_id", existing.ID).Str("client_id", clientID).Msg("idempotent replay")
	return existing
}

func (s *bookingService) ListMine(ctx context.Context, actor ports.Actor) ([]*domain.BookingView, error) {
	switch actor.Role {
	case domain.RoleClient:
		return s.bookings.ListForClient(ctx, actor.UserID)
	case domain.RoleArtisan:
		return s.bookings.ListForArtisanUser(ctx, actor.UserID)
	default:
		return nil, domain.ErrForbidden
	}
}

// Get returns the booking to either of its parties. Anyone else gets
// domain.ErrForbidden.
func (s *bookingService) Get(ctx context.Context, id, callerID string) (*domain.BookingView, error) {
	view, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !view.Involves(callerID) {
		return nil, domain.ErrForbidden
	}
	return view, nil
}

// UpdateStatus moves a booking owned by the calling artisan along the state
// machine. Bookings of other artisans are reported as not found.
func (s *bookingService) UpdateStatus(ctx context.Context, id, artisanUserID string, next domain.BookingStatus) (*domain.Booking, error) {
	if !next.Valid() || next == domain.StatusPending {
		return nil, domain.Invalid("status must be one of confirmed, completed, cancelled")
	}

	booking, err := s.bookings.UpdateStatus(ctx, id, ports.BookingScope{ArtisanUserID: artisanUserID}, next, domain.TransitionSources(next))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: cannot move booking to %s", domain.ErrInvalidTransition, next)
		}
		return nil, err
	}

	s.record(ctx, booking.ID, booking.Status, artisanUserID, domain.RoleArtisan)
	s.log.Info().Str("booking_id", booking.ID).Str("status", string(booking.Status)).Msg("booking status updated")
	return booking, nil
}

// Cancel cancels a booking of the calling client. Completed bookings cannot
// be cancelled; cancelling twice succeeds.
func (s *bookingService) Cancel(ctx context.Context, id, clientID string) (*domain.Booking, error) {
	booking, err := s.bookings.UpdateStatus(ctx, id, ports.BookingScope{ClientID: clientID}, domain.StatusCancelled, domain.CancelSources())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: cannot cancel completed booking", domain.ErrInvalidTransition)
		}
		return nil, err
	}

	s.record(ctx, booking.ID, booking.Status, clientID, domain.RoleClient)
	s.log.Info().Str("booking_id", booking.ID).Str("client_id", clientID).Msg("booking cancelled")
	return booking, nil
}

// SetFinalPrice records the agreed price regardless of status.
func (s *bookingService) SetFinalPrice(ctx context.Context, id, artisanUserID string, price float64) (*domain.Booking, error) {
	if price <= 0 {
		return nil, domain.Invalid("final price must be greater than 0")
	}

	booking, err := s.bookings.SetFinalPrice(ctx, id, ports.BookingScope{ArtisanUserID: artisanUserID}, price)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("booking_id", booking.ID).Float64("final_price", price).Msg("final price set")
	return booking, nil
}

// History returns the audit trail under the same access rule as Get.
func (s *bookingService) History(ctx context.Context, id, callerID string) ([]*domain.BookingEvent, error) {
	if _, err := s.Get(ctx, id, callerID); err != nil {
		return nil, err
	}
	if s.events == nil {
		return []*domain.BookingEvent{}, nil
	}
	return s.events.ListEvents(ctx, id)
}

// record appends to the audit trail. Failures are logged, never returned: the
// booking write already succeeded.
func (s *bookingService) record(ctx context.Context, bookingID string, status domain.BookingStatus, actorID, actorRole string) {
	if s.events == nil {
		return
	}
	event := &domain.BookingEvent{
		BookingID:  bookingID,
		Status:     status,
		ActorID:    actorID,
		ActorRole:  actorRole,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("booking_id", bookingID).Msg("failed to insert audit event")
	}
}

func negative(v *float64) bool {
	return v != nil && *v < 0
}
