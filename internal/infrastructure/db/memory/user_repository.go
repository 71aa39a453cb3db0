// Package memory provides the default, process-local UserRepository.
package memory

import (
	"context"
	"sync"

	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

// UserRepository keeps users in insertion order. Lookups are linear scans;
// the data set is assumed small.
type UserRepository struct {
	mu     sync.RWMutex
	users  []*domain.User
	nextID int64
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1}
}

// Create assigns the next identifier. The counter only advances on success,
// and identifiers of deleted users are never handed out again.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfUsername(user.Username) >= 0 {
		return nil, domain.ErrDuplicateUsername
	}

	stored := user.Clone()
	stored.ID = r.nextID
	r.nextID++
	r.users = append(r.users, stored)
	return stored.Clone(), nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOfID(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.users[i].Clone(), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOfUsername(username)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.users[i].Clone(), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfID(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	patch.Apply(r.users[i])
	return r.users[i].Clone(), nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOfID(id)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

// Len returns the number of live users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *UserRepository) indexOfID(id int64) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) indexOfUsername(username string) int {
	for i, u := range r.users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
