package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-registry/internal/core/ports"
)

// UserHandler handles HTTP requests for registry operations. Domain errors are
// returned unchanged and mapped to status codes by the API error handler.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func userPath(id int64) string {
	return "/v1/users/" + strconv.FormatInt(id, 10)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Description  Returns every user in insertion order. Credential hashes are never included.
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListSafe(c.Request().Context())
	if err != nil {
		return err
	}

	resp := listUsersResponse{Users: make([]userResponse, 0, len(users)), Total: len(users)}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Description  Roles default to ["viewer"] when omitted.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id, err := h.service.CreateUser(ctx, ports.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}

	user, err := h.service.GetByID(ctx, id)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, userPath(id))
	return c.JSON(http.StatusCreated, createUserResponse{ID: id, User: toUserResponse(user)})
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetByUsername handles GET /v1/users/by-username/:username.
//
// @Summary      Get a user by username
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Param        username  path      string  true  "Username (case-sensitive)"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  map[string]string
// @Router       /v1/users/by-username/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update handles PATCH /v1/users/:id.
//
// @Summary      Update a user
// @Description  Empty or omitted fields are left unchanged. A new password re-derives the credential hash. "roles": [] clears all roles.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Roles != nil {
		in.Roles = append([]string{}, (*req.Roles)...)
	}

	user, err := h.service.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /v1/users/:id.
//
// @Summary      Delete a user
// @Description  Deletion is permanent; the id is never reissued.
// @Tags         users
// @Security     BasicAuth
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
