package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/99minutos/user-registry/internal/pkg/metrics"
	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

// UserService is the user registry. It owns identifier assignment (through
// the repository), username uniqueness, credential hashing and
// authentication. It does not log; outcomes are reported to the AuditSink.
type UserService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	limiter ports.AttemptLimiter
	audit   ports.AuditSink
	now     func() time.Time

	// dummyHash is verified against when the username is unknown so that
	// both authentication failure paths do the same work.
	dummyHash string
}

// Option customises a UserService.
type Option func(*UserService)

// WithAttemptLimiter enables lockout after repeated failed authentications.
func WithAttemptLimiter(l ports.AttemptLimiter) Option {
	return func(s *UserService) { s.limiter = l }
}

// WithAuditSink sets where audit events are sent.
func WithAuditSink(a ports.AuditSink) Option {
	return func(s *UserService) { s.audit = a }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, opts ...Option) (*UserService, error) {
	s := &UserService{
		repo:   repo,
		hasher: hasher,
		audit:  nopAudit{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	dummy, err := hasher.Hash("registry-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("derive dummy hash: %w", err)
	}
	s.dummyHash = dummy
	return s, nil
}

// SyncLiveUsers sets the live-users gauge from the repository, so a durable
// store that already holds users starts from the right count.
func (s *UserService) SyncLiveUsers(ctx context.Context) error {
	users, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	metrics.UsersLive.Set(float64(len(users)))
	return nil
}

// CreateUser registers a new user and returns its identifier.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (int64, error) {
	if in.Username == "" || in.Password == "" {
		observe("create", domain.ErrInvalidUser)
		return 0, domain.ErrInvalidUser
	}

	roles := domain.NormalizeRoles(in.Roles)
	if len(roles) == 0 {
		roles = domain.DefaultRoles()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		observe("create", err)
		return 0, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Email:        in.Email,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	observe("create", err)
	if err != nil {
		return 0, err
	}

	metrics.UsersCreatedTotal.Inc()
	metrics.UsersLive.Inc()
	s.record(domain.ActionUserCreated, created.ID, created.Username, "ok")
	return created.ID, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (domain.SafeUser, error) {
	u, err := s.repo.FindByID(ctx, id)
	observe("get", err)
	if err != nil {
		return domain.SafeUser{}, err
	}
	return u.Safe(), nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.SafeUser, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	observe("get", err)
	if err != nil {
		return domain.SafeUser{}, err
	}
	return u.Safe(), nil
}

// ListSafe returns every user, without credential hashes, in insertion order.
func (s *UserService) ListSafe(ctx context.Context) ([]domain.SafeUser, error) {
	users, err := s.repo.List(ctx)
	observe("list", err)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SafeUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Safe())
	}
	return out, nil
}

// UpdateUser applies the non-empty fields of in. A new password re-derives
// the credential hash.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (domain.SafeUser, error) {
	patch := domain.UserPatch{UpdatedAt: s.now()}
	if in.FullName != "" {
		patch.FullName = &in.FullName
	}
	if in.Email != "" {
		patch.Email = &in.Email
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			observe("update", err)
			return domain.SafeUser{}, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if in.Roles != nil {
		roles := domain.NormalizeRoles(in.Roles)
		patch.Roles = &roles
	}

	updated, err := s.repo.Update(ctx, id, patch)
	observe("update", err)
	if err != nil {
		return domain.SafeUser{}, err
	}

	s.record(domain.ActionUserUpdated, updated.ID, updated.Username, "ok")
	return updated.Safe(), nil
}

// DeleteUser removes the user permanently. Its identifier is never reissued.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		observe("delete", err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		observe("delete", err)
		return err
	}
	observe("delete", nil)

	metrics.UsersLive.Dec()
	s.record(domain.ActionUserDeleted, u.ID, u.Username, "ok")
	return nil
}

// Authenticate verifies the password of a live user. Unknown users and wrong
// passwords both yield domain.ErrAuthenticationFailed.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.SafeUser, error) {
	if s.limiter != nil {
		// Limiter failures are not fatal; authentication proceeds.
		if blocked, err := s.limiter.Blocked(ctx, username); err == nil && blocked {
			metrics.AuthenticationsTotal.WithLabelValues("locked").Inc()
			s.record(domain.ActionAuthenticationFailed, 0, username, "locked")
			return domain.SafeUser{}, domain.ErrTooManyAttempts
		}
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.SafeUser{}, err
	}

	hash := s.dummyHash
	if u != nil {
		hash = u.PasswordHash
	}
	ok, verr := s.hasher.Verify(hash, password)
	if u == nil || verr != nil || !ok {
		s.fail(ctx, username)
		return domain.SafeUser{}, domain.ErrAuthenticationFailed
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, username)
	}
	metrics.AuthenticationsTotal.WithLabelValues("success").Inc()
	s.record(domain.ActionAuthenticated, u.ID, u.Username, "ok")
	return u.Safe(), nil
}

func (s *UserService) fail(ctx context.Context, username string) {
	if s.limiter != nil {
		_ = s.limiter.Fail(ctx, username)
	}
	metrics.AuthenticationsTotal.WithLabelValues("failure").Inc()
	s.record(domain.ActionAuthenticationFailed, 0, username, "invalid_credentials")
}

func (s *UserService) record(action domain.AuditAction, id int64, username, outcome string) {
	s.audit.Record(domain.AuditEvent{
		Action:   action,
		UserID:   id,
		Username: username,
		Outcome:  outcome,
		At:       s.now(),
	})
}

// observe counts an operation outcome. Domain errors count as rejected.
func observe(op string, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrInvalidUser):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.UserOperationsTotal.WithLabelValues(op, result).Inc()
}

type nopAudit struct{}

func (nopAudit) Record(domain.AuditEvent) {}
