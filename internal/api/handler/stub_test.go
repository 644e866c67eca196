package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fissaa/marketplace-api/internal/api/middleware"
	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

var errNotStubbed = errors.New("not stubbed")

const (
	bookingUUID = "0b9d3c1e-7d8e-4f6a-9b2c-3d4e5f607182"
	artisanUUID = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
	reviewUUID  = "9f8e7d6c-5b4a-4c3d-8e2f-1a0b9c8d7e6f"
)

// newContext builds an echo context for target. A non-nil actor is injected
// as if the Auth middleware had run.
func newContext(method, target, body string, actor *ports.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if actor != nil {
		c.Set(middleware.KeyUserID, actor.UserID)
		c.Set(middleware.KeyRole, actor.Role)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

var (
	client  = &ports.Actor{UserID: "client-1", Role: domain.RoleClient}
	artisan = &ports.Actor{UserID: "artisan-user-1", Role: domain.RoleArtisan}
)

// --- services ---

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, phone, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	if s.registerFn == nil {
		return "", nil, errNotStubbed
	}
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, phone, password string) (string, *domain.User, error) {
	if s.loginFn == nil {
		return "", nil, errNotStubbed
	}
	return s.loginFn(ctx, phone, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if s.meFn == nil {
		return nil, errNotStubbed
	}
	return s.meFn(ctx, userID)
}

type stubArtisanService struct {
	upsertFn func(ctx context.Context, in ports.ProfileInput) (*domain.ArtisanProfile, error)
	listFn   func(ctx context.Context, f ports.ArtisanFilter) ([]*domain.ArtisanListing, error)
	getFn    func(ctx context.Context, id string) (*domain.ArtisanListing, error)
	mineFn   func(ctx context.Context, userID string) (*domain.ArtisanListing, error)
	toggleFn func(ctx context.Context, userID string) (bool, error)
}

func (s *stubArtisanService) UpsertProfile(ctx context.Context, in ports.ProfileInput) (*domain.ArtisanProfile, error) {
	if s.upsertFn == nil {
		return nil, errNotStubbed
	}
	return s.upsertFn(ctx, in)
}

func (s *stubArtisanService) List(ctx context.Context, f ports.ArtisanFilter) ([]*domain.ArtisanListing, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx, f)
}

func (s *stubArtisanService) Get(ctx context.Context, id string) (*domain.ArtisanListing, error) {
	if s.getFn == nil {
		return nil, errNotStubbed
	}
	return s.getFn(ctx, id)
}

func (s *stubArtisanService) MyProfile(ctx context.Context, userID string) (*domain.ArtisanListing, error) {
	if s.mineFn == nil {
		return nil, errNotStubbed
	}
	return s.mineFn(ctx, userID)
}

func (s *stubArtisanService) ToggleAvailability(ctx context.Context, userID string) (bool, error) {
	if s.toggleFn == nil {
		return false, errNotStubbed
	}
	return s.toggleFn(ctx, userID)
}

type stubBookingService struct {
	createFn  func(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingResult, error)
	listFn    func(ctx context.Context, actor ports.Actor) ([]*domain.BookingView, error)
	getFn     func(ctx context.Context, id, callerID string) (*domain.BookingView, error)
	statusFn  func(ctx context.Context, id, artisanUserID string, next domain.BookingStatus) (*domain.Booking, error)
	cancelFn  func(ctx context.Context, id, clientID string) (*domain.Booking, error)
	priceFn   func(ctx context.Context, id, artisanUserID string, price float64) (*domain.Booking, error)
	historyFn func(ctx context.Context, id, callerID string) ([]*domain.BookingEvent, error)
}

func (s *stubBookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingResult, error) {
	if s.createFn == nil {
		return nil, errNotStubbed
	}
	return s.createFn(ctx, in)
}

func (s *stubBookingService) ListMine(ctx context.Context, actor ports.Actor) ([]*domain.BookingView, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx, actor)
}

func (s *stubBookingService) Get(ctx context.Context, id, callerID string) (*domain.BookingView, error) {
	if s.getFn == nil {
		return nil, errNotStubbed
	}
	return s.getFn(ctx, id, callerID)
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, id, artisanUserID string, next domain.BookingStatus) (*domain.Booking, error) {
	if s.statusFn == nil {
		return nil, errNotStubbed
	}
	return s.statusFn(ctx, id, artisanUserID, next)
}

func (s *stubBookingService) Cancel(ctx context.Context, id, clientID string) (*domain.Booking, error) {
	if s.cancelFn == nil {
		return nil, errNotStubbed
	}
	return s.cancelFn(ctx, id, clientID)
}

func (s *stubBookingService) SetFinalPrice(ctx context.Context, id, artisanUserID string, price float64) (*domain.Booking, error) {
	if s.priceFn == nil {
		return nil, errNotStubbed
	}
	return s.priceFn(ctx, id, artisanUserID, price)
}

func (s *stubBookingService) History(ctx context.Context, id, callerID string) ([]*domain.BookingEvent, error) {
	if s.historyFn == nil {
		return nil, errNotStubbed
	}
	return s.historyFn(ctx, id, callerID)
}

type stubReviewService struct {
	createFn  func(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error)
	artisanFn func(ctx context.Context, artisanID string) (*ports.ArtisanReviews, error)
	mineFn    func(ctx context.Context, clientID string) ([]*domain.ReviewView, error)
	updateFn  func(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error)
	deleteFn  func(ctx context.Context, id, clientID string) error
}

func (s *stubReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if s.createFn == nil {
		return nil, errNotStubbed
	}
	return s.createFn(ctx, in)
}

func (s *stubReviewService) ListForArtisan(ctx context.Context, artisanID string) (*ports.ArtisanReviews, error) {
	if s.artisanFn == nil {
		return nil, errNotStubbed
	}
	return s.artisanFn(ctx, artisanID)
}

func (s *stubReviewService) ListMine(ctx context.Context, clientID string) ([]*domain.ReviewView, error) {
	if s.mineFn == nil {
		return nil, errNotStubbed
	}
	return s.mineFn(ctx, clientID)
}

func (s *stubReviewService) Update(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
	if s.updateFn == nil {
		return nil, errNotStubbed
	}
	return s.updateFn(ctx, in)
}

func (s *stubReviewService) Delete(ctx context.Context, id, clientID string) error {
	if s.deleteFn == nil {
		return errNotStubbed
	}
	return s.deleteFn(ctx, id, clientID)
}
