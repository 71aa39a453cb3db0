package ports

import (
	"context"

	"github.com/99minutos/user-registry/internal/core/domain"
)

// PasswordHasher derives and checks credential hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. An error means the hash
	// itself could not be parsed.
	Verify(hash, password string) (bool, error)
}

// AttemptLimiter tracks failed authentications per username.
type AttemptLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	Fail(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuditSink receives registry audit events. Record must not block.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
