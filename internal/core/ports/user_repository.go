package ports

import (
	"context"

	"github.com/99minutos/user-registry/internal/core/domain"
)

// UserRepository defines the storage behind the registry.
//
// Implementations assign identifiers on Create (monotonic, never reused) and
// must enforce username uniqueness atomically with the insert.
type UserRepository interface {
	// Create stores user, assigning ID. Returns domain.ErrDuplicateUsername
	// when a live user already has the username.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every live user in insertion order.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies patch atomically and returns the updated record.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
