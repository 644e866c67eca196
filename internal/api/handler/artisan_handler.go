package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// ArtisanHandler serves the public artisan directory and the artisan's own
// profile management.
type ArtisanHandler struct {
	service ports.ArtisanService
}

func NewArtisanHandler(service ports.ArtisanService) *ArtisanHandler {
	return &ArtisanHandler{service: service}
}

type profileRequest struct {
	Profession      string   `json:"profession" validate:"required"`
	Bio             *string  `json:"bio"`
	HourlyRate      *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
	ExperienceYears *int     `json:"experienceYears" validate:"omitempty,gte=0"`
	City            string   `json:"city" validate:"required"`
	Address         *string  `json:"address"`
	ProfileImageURL *string  `json:"profileImageUrl"`
}

type profileResponse struct {
	Message string                 `json:"message"`
	Artisan *domain.ArtisanProfile `json:"artisan"`
}

type artisanResponse struct {
	Artisan *domain.ArtisanListing `json:"artisan"`
}

type artisanListResponse struct {
	Count    int                      `json:"count"`
	Artisans []*domain.ArtisanListing `json:"artisans"`
}

type availabilityResponse struct {
	Message   string `json:"message"`
	Available bool   `json:"available"`
}

// List returns artisans matching every supplied filter, best rated first.
//
// @Summary      List artisans
// @Tags         artisans
// @Produce      json
// @Param        profession  query     string  false  "Exact profession"
// @Param        city        query     string  false  "Exact city"
// @Param        minRating   query     number  false  "Minimum average rating"
// @Param        available   query     bool    false  "Availability flag"
// @Success      200         {object}  artisanListResponse
// @Failure      400         {object}  map[string]string
// @Router       /artisans [get]
func (h *ArtisanHandler) List(c echo.Context) error {
	filter, err := parseArtisanFilter(c)
	if err != nil {
		return err
	}

	artisans, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artisanListResponse{Count: len(artisans), Artisans: artisans})
}

// Get returns one artisan with contact fields and derived rating.
//
// @Summary      Get artisan
// @Tags         artisans
// @Produce      json
// @Param        id   path      string  true  "Artisan profile ID"
// @Success      200  {object}  artisanResponse
// @Failure      404  {object}  map[string]string
// @Router       /artisans/{id} [get]
func (h *ArtisanHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id", domain.ErrArtisanNotFound)
	if err != nil {
		return err
	}

	artisan, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artisanResponse{Artisan: artisan})
}

// UpsertProfile creates or replaces the caller's artisan profile.
//
// @Summary      Create or update own profile
// @Tags         artisans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /artisans/profile [post]
// @Router       /artisans/profile [put]
func (h *ArtisanHandler) UpsertProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpsertProfile(c.Request().Context(), ports.ProfileInput{
		UserID:          actor.UserID,
		Profession:      req.Profession,
		Bio:             req.Bio,
		HourlyRate:      req.HourlyRate,
		ExperienceYears: req.ExperienceYears,
		City:            req.City,
		Address:         req.Address,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Message: "Profile saved successfully", Artisan: profile})
}

// MyProfile returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         artisans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  artisanResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /artisans/me/profile [get]
func (h *ArtisanHandler) MyProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	artisan, err := h.service.MyProfile(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artisanResponse{Artisan: artisan})
}

// ToggleAvailability flips the caller's availability flag.
//
// @Summary      Toggle availability
// @Tags         artisans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  availabilityResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /artisans/availability [patch]
func (h *ArtisanHandler) ToggleAvailability(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	available, err := h.service.ToggleAvailability(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}

	msg := "You are now unavailable"
	if available {
		msg = "You are now available"
	}
	return c.JSON(http.StatusOK, availabilityResponse{Message: msg, Available: available})
}

// parseArtisanFilter reads the optional directory filters. Empty parameters
// are ignored.
func parseArtisanFilter(c echo.Context) (ports.ArtisanFilter, error) {
	filter := ports.ArtisanFilter{
		Profession: c.QueryParam("profession"),
		City:       c.QueryParam("city"),
	}

	if raw := c.QueryParam("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, domain.Invalid("minRating must be a number")
		}
		filter.MinRating = &v
	}

	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, domain.Invalid("available must be true or false")
		}
		filter.Available = &v
	}

	return filter, nil
}
