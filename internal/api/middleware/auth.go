package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

const (
	realm = "user-registry"

	ctxUser     = "user"
	ctxUsername = "username"
)

// Auth verifies HTTP Basic credentials against the registry itself and
// injects the caller into the context.
func Auth(users ports.UserService) echo.MiddlewareFunc {
	return echomiddleware.BasicAuthWithConfig(echomiddleware.BasicAuthConfig{
		Realm: realm,
		Validator: func(username, password string, c echo.Context) (bool, error) {
			user, err := users.Authenticate(c.Request().Context(), username, password)
			if errors.Is(err, domain.ErrAuthenticationFailed) {
				return false, nil
			}
			if err != nil {
				return false, err
			}

			c.Set(ctxUser, user)
			c.Set(ctxUsername, user.Username)
			return true, nil
		},
	})
}

// UserFromContext returns the caller set by Auth.
func UserFromContext(c echo.Context) (domain.SafeUser, bool) {
	u, ok := c.Get(ctxUser).(domain.SafeUser)
	return u, ok
}
