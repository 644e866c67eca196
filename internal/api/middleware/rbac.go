package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// RBAC admits only callers whose role, as set by Auth, is one of allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("%w: role %q may not perform this action", domain.ErrForbidden, role)
			}
			return next(c)
		}
	}
}
