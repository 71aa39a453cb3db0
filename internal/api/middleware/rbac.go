package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC lets the request through when the caller set by Auth holds any of
// allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := UserFromContext(c); ok {
				for _, r := range allowedRoles {
					if user.HasRole(r) {
						return next(c)
					}
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
