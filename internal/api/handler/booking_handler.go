package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fissaa/marketplace-api/internal/api/metrics"
	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry POST /bookings safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// BookingHandler handles HTTP requests for the booking lifecycle.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// --- Request / Response types ---

type createBookingRequest struct {
	ArtisanID      string   `json:"artisanId" validate:"required"`
	ServiceType    *string  `json:"serviceType"`
	Description    *string  `json:"description"`
	ScheduledDate  string   `json:"scheduledDate" validate:"required"`
	Address        string   `json:"address" validate:"required"`
	EstimatedHours *float64 `json:"estimatedHours" validate:"omitempty,gte=0"`
	EstimatedPrice *float64 `json:"estimatedPrice" validate:"omitempty,gte=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

type finalPriceRequest struct {
	FinalPrice float64 `json:"finalPrice" validate:"required,gt=0"`
}

type bookingMessageResponse struct {
	Message string          `json:"message"`
	Booking *domain.Booking `json:"booking"`
}

type bookingResponse struct {
	Booking *domain.BookingView `json:"booking"`
}

type bookingListResponse struct {
	Count    int                   `json:"count"`
	Bookings []*domain.BookingView `json:"bookings"`
}

type bookingHistoryResponse struct {
	Count  int                    `json:"count"`
	Events []*domain.BookingEvent `json:"events"`
}

// Create books an available artisan for the calling client.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Client chosen retry key"
// @Param        body             body      createBookingRequest  true   "Booking"
// @Success      201              {object}  bookingMessageResponse
// @Success      200              {object}  bookingMessageResponse  "Replayed by Idempotency-Key"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	scheduled, err := parseDate(req.ScheduledDate)
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		ClientID:       actor.UserID,
		ArtisanID:      req.ArtisanID,
		ServiceType:    req.ServiceType,
		Description:    req.Description,
		ScheduledDate:  scheduled,
		Address:        req.Address,
		EstimatedHours: req.EstimatedHours,
		EstimatedPrice: req.EstimatedPrice,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
		return c.JSON(http.StatusOK, bookingMessageResponse{Message: "Booking already exists", Booking: result.Booking})
	}
	metrics.BookingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, bookingMessageResponse{Message: "Booking created successfully", Booking: result.Booking})
}

// ListMine returns the caller's bookings: as client, or as the artisan booked.
//
// @Summary      List own bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  bookingListResponse
// @Failure      401  {object}  map[string]string
// @Router       /bookings/my-bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingListResponse{Count: len(bookings), Bookings: bookings})
}

// Get returns a booking to either of its parties.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  bookingResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBookingNotFound)
	if err != nil {
		return err
	}

	booking, err := h.service.Get(c.Request().Context(), id, actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingResponse{Booking: booking})
}

// History returns the booking's audit trail, oldest first.
//
// @Summary      Booking history
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  bookingHistoryResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id}/history [get]
func (h *BookingHandler) History(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBookingNotFound)
	if err != nil {
		return err
	}

	events, err := h.service.History(c.Request().Context(), id, actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingHistoryResponse{Count: len(events), Events: events})
}

// UpdateStatus moves a booking of the calling artisan along its lifecycle.
//
// @Summary      Update booking status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Booking ID"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  bookingMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBookingNotFound)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.service.UpdateStatus(c.Request().Context(), id, actor.UserID, domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(booking.Status)).Inc()
	return c.JSON(http.StatusOK, bookingMessageResponse{Message: "Booking status updated", Booking: booking})
}

// SetFinalPrice records the agreed price of a booking of the calling artisan.
//
// @Summary      Set final price
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Booking ID"
// @Param        body  body      finalPriceRequest  true  "Final price"
// @Success      200   {object}  bookingMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /bookings/{id}/price [patch]
func (h *BookingHandler) SetFinalPrice(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBookingNotFound)
	if err != nil {
		return err
	}

	var req finalPriceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.service.SetFinalPrice(c.Request().Context(), id, actor.UserID, req.FinalPrice)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingMessageResponse{Message: "Final price set", Booking: booking})
}

// Cancel cancels a booking of the calling client.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  bookingMessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBookingNotFound)
	if err != nil {
		return err
	}

	booking, err := h.service.Cancel(c.Request().Context(), id, actor.UserID)
	if err != nil {
		return err
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	return c.JSON(http.StatusOK, bookingMessageResponse{Message: "Booking cancelled successfully", Booking: booking})
}
