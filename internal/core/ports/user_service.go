package ports

import (
	"context"

	"github.com/99minutos/user-registry/internal/core/domain"
)

// CreateUserInput carries the data needed to register a user.
// Nil or empty Roles means domain.DefaultRoles.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Roles    []string
}

// UpdateUserInput carries a partial update. Empty strings leave the field
// unchanged; nil Roles leaves roles unchanged, a non-nil slice (even empty)
// replaces them.
type UpdateUserInput struct {
	FullName string
	Email    string
	Password string
	Roles    []string
}

// UserService is the registry contract consumed by the front ends.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.SafeUser, error)
	GetByUsername(ctx context.Context, username string) (domain.SafeUser, error)
	ListSafe(ctx context.Context) ([]domain.SafeUser, error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (domain.SafeUser, error)
	DeleteUser(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, username, password string) (domain.SafeUser, error)
}
