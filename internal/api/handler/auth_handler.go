package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-registry/internal/core/ports"
)

// AuthHandler exposes one-shot credential verification. No session or token
// is issued.
type AuthHandler struct {
	service ports.UserService
}

func NewAuthHandler(service ports.UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Authenticate checks a username/password pair.
//
// @Summary      Authenticate a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  authenticateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authenticateResponse{Authenticated: true, User: toUserResponse(user)})
}
