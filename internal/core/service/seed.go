package service

import (
	"context"
	"errors"

	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

// SampleUsers are the demo accounts created when seeding is enabled.
var SampleUsers = []ports.CreateUserInput{
	{Username: "admin", Password: "admin123", FullName: "Administrador", Email: "admin@example.com", Roles: []string{domain.RoleAdmin, domain.RoleEditor}},
	{Username: "juanp", Password: "pass4juan", FullName: "Juan Pérez", Email: "juan@example.com", Roles: []string{domain.RoleViewer}},
	{Username: "mariaf", Password: "segura789", FullName: "María Fernández", Email: "maria@example.com", Roles: []string{domain.RoleEditor}},
}

// Seed creates the sample users, skipping any username already registered.
// It returns the number of users created.
func (s *UserService) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, in := range SampleUsers {
		_, err := s.CreateUser(ctx, in)
		if errors.Is(err, domain.ErrDuplicateUsername) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// EnsureAdmin creates username with the admin role unless it already exists.
// It reports whether the account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.CreateUser(ctx, ports.CreateUserInput{
		Username: username,
		Password: password,
		FullName: "Administrator",
		Roles:    []string{domain.RoleAdmin},
	})
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
