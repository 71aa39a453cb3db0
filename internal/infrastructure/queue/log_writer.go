package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-registry/internal/core/domain"
)

// LogWriter emits audit events as structured log entries.
type LogWriter struct {
	log zerolog.Logger
}

func NewLogWriter(log zerolog.Logger) *LogWriter {
	return &LogWriter{log: log}
}

func (w *LogWriter) Write(_ context.Context, e domain.AuditEvent) error {
	evt := w.log.Info()
	if e.Action == domain.ActionAuthenticationFailed {
		evt = w.log.Warn()
	}
	if e.UserID != 0 {
		evt = evt.Int64("user_id", e.UserID)
	}
	evt.Str("action", string(e.Action)).
		Str("username", e.Username).
		Str("outcome", e.Outcome).
		Time("at", e.At).
		Msg("audit")
	return nil
}
