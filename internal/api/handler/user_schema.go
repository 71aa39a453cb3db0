package handler

import (
	"time"

	"github.com/99minutos/user-registry/internal/core/domain"
)

// --- Request types ---

type createUserRequest struct {
	Username string   `json:"username" validate:"required,max=64,excludesall= /"`
	Password string   `json:"password" validate:"required,max=128"`
	FullName string   `json:"full_name" validate:"required,max=128"`
	Email    string   `json:"email" validate:"required,email"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,max=16,dive,max=32"`
}

// updateUserRequest fields are all optional. An omitted or null roles value
// leaves roles unchanged; an explicit [] clears them.
type updateUserRequest struct {
	FullName string    `json:"full_name" validate:"omitempty,max=128"`
	Email    string    `json:"email" validate:"omitempty,email"`
	Password string    `json:"password" validate:"omitempty,max=128"`
	Roles    *[]string `json:"roles"`
}

type authenticateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	Links     userLinks `json:"_links"`
}

type userLinks struct {
	Self string `json:"self"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
	Total int            `json:"total"`
}

type createUserResponse struct {
	ID   int64        `json:"id"`
	User userResponse `json:"user"`
}

type authenticateResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          userResponse `json:"user"`
}

func toUserResponse(u domain.SafeUser) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
		Links:     userLinks{Self: userPath(u.ID)},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
