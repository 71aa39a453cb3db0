package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var (
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidUser          = errors.New("username and password are required")
	ErrTooManyAttempts      = errors.New("too many failed authentication attempts")
)

// DefaultRoles returns the roles assigned when none are supplied at creation.
func DefaultRoles() []string {
	return []string{RoleViewer}
}

// User is a registry record. PasswordHash never leaves the registry; callers
// outside the core receive a SafeUser.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SafeUser is the externally visible view of a User.
type SafeUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Safe strips the credential hash. The returned roles slice is a copy.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Roles:     append([]string{}, u.Roles...),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Clone returns a deep copy so stored records are never aliased.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string{}, u.Roles...)
	return &c
}

// HasRole reports whether the user holds role.
func (u SafeUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserPatch carries a partial update. Nil fields are left unchanged.
// UpdatedAt is stamped onto the record when anything changes.
type UserPatch struct {
	FullName     *string
	Email        *string
	PasswordHash *string
	Roles        *[]string
	UpdatedAt    time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.PasswordHash == nil && p.Roles == nil
}

// Apply writes the patch onto u and stamps p.UpdatedAt when anything changed.
func (p UserPatch) Apply(u *User) {
	if p.IsEmpty() {
		return
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Roles != nil {
		u.Roles = append([]string{}, (*p.Roles)...)
	}
	if !p.UpdatedAt.IsZero() {
		u.UpdatedAt = p.UpdatedAt
	}
}

// NormalizeRoles trims entries, drops empty ones and removes duplicates while
// keeping the first occurrence. A nil input stays nil.
func NormalizeRoles(roles []string) []string {
	if roles == nil {
		return nil
	}
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

