package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fissaa/marketplace-api/internal/api/middleware"
	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// ctxActor extracts the identity injected by the Auth middleware. An empty
// user id or role means the route was mounted without Auth.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	role, _ := c.Get(middleware.KeyRole).(string)
	if userID == "" || role == "" {
		return ports.Actor{}, fmt.Errorf("%w: missing authentication claims", domain.ErrUnauthenticated)
	}
	return ports.Actor{UserID: userID, Role: role}, nil
}

// pathID reads a path parameter that must be a UUID. Anything else cannot
// name an existing record, so it is reported as notFound.
func pathID(c echo.Context, name string, notFound error) (string, error) {
	id := c.Param(name)
	if uuid.Validate(id) != nil {
		return "", notFound
	}
	return id, nil
}

// bind decodes the request body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	return c.Validate(req)
}

// dateLayouts are the accepted forms of a scheduled date, most precise first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a client supplied timestamp. Values without a zone are
// taken as UTC.
func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Invalid("scheduledDate must be an ISO-8601 date")
}

type messageResponse struct {
	Message string `json:"message"`
}
