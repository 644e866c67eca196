package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fissaa/marketplace-api/internal/api/metrics"
	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Rating is range checked by the service so that a missing value and an
// out-of-range one get the same message.
type createReviewRequest struct {
	BookingID string  `json:"bookingId" validate:"required"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type reviewMessageResponse struct {
	Message string         `json:"message"`
	Review  *domain.Review `json:"review"`
}

type artisanReviewsResponse struct {
	Stats   domain.RatingSummary `json:"stats"`
	Reviews []*domain.ReviewView `json:"reviews"`
}

type reviewListResponse struct {
	Count   int                  `json:"count"`
	Reviews []*domain.ReviewView `json:"reviews"`
}

// Create rates a completed booking of the calling client.
//
// @Summary      Review a booking
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), ports.CreateReviewInput{
		ClientID:  actor.UserID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	metrics.ReviewsCreatedTotal.WithLabelValues(strconv.Itoa(review.Rating)).Inc()
	return c.JSON(http.StatusCreated, reviewMessageResponse{Message: "Review created successfully", Review: review})
}

// ListForArtisan returns an artisan's reviews with their rating breakdown.
//
// @Summary      Reviews of an artisan
// @Tags         reviews
// @Produce      json
// @Param        artisanId  path      string  true  "Artisan profile ID"
// @Success      200        {object}  artisanReviewsResponse
// @Router       /reviews/artisan/{artisanId} [get]
func (h *ReviewHandler) ListForArtisan(c echo.Context) error {
	page, err := h.service.ListForArtisan(c.Request().Context(), c.Param("artisanId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artisanReviewsResponse{Stats: page.Stats, Reviews: page.Reviews})
}

// ListMine returns the reviews the calling client wrote.
//
// @Summary      Own reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reviewListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /reviews/my-reviews [get]
func (h *ReviewHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	reviews, err := h.service.ListMine(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviewListResponse{Count: len(reviews), Reviews: reviews})
}

// Update changes the rating and/or comment of an own review.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Review ID"
// @Param        body  body      updateReviewRequest  true  "Fields to change"
// @Success      200   {object}  reviewMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrReviewNotFound)
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.service.Update(c.Request().Context(), ports.UpdateReviewInput{
		ReviewID: id,
		ClientID: actor.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviewMessageResponse{Message: "Review updated successfully", Review: review})
}

// Delete removes an own review.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrReviewNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, actor.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted successfully"})
}
