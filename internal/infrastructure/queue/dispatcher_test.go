package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-registry/internal/core/domain"
)

type memWriter struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
	block  chan struct{}
}

func (w *memWriter) Write(_ context.Context, e domain.AuditEvent) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, e)
	return w.err
}

func (w *memWriter) snapshot() []domain.AuditEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.AuditEvent(nil), w.events...)
}

func TestDispatcher_DeliversAllEventsBeforeStopReturns(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(4, zerolog.Nop(), w)
	d.Start(context.Background())

	for i := 0; i < 100; i++ {
		d.Record(domain.AuditEvent{Action: domain.ActionUserCreated, Username: fmt.Sprintf("user-%d", i%7)})
	}
	d.Stop()

	if got := len(w.snapshot()); got != 100 {
		t.Fatalf("expected 100 events, got %d", got)
	}
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(8, zerolog.Nop(), w)
	d.Start(context.Background())

	for i := 1; i <= 50; i++ {
		d.Record(domain.AuditEvent{Username: "admin", UserID: int64(i)})
		d.Record(domain.AuditEvent{Username: "juanp", UserID: int64(i)})
	}
	d.Stop()

	last := map[string]int64{}
	for _, e := range w.snapshot() {
		if e.UserID <= last[e.Username] {
			t.Fatalf("events for %s out of order: %d after %d", e.Username, e.UserID, last[e.Username])
		}
		last[e.Username] = e.UserID
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	w := &memWriter{block: make(chan struct{})}
	d := NewDispatcher(1, zerolog.Nop(), w)
	d.Start(context.Background())

	// One event is held by the blocked writer, channelBuffer fill the queue,
	// and the rest must be dropped without blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.AuditEvent{Username: "admin", UserID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(w.block)
	d.Stop()

	got := len(w.snapshot())
	if got >= channelBuffer+10 || got < channelBuffer {
		t.Fatalf("expected some events dropped, got %d delivered", got)
	}
}

func TestDispatcher_RecordAfterStopIsDropped(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(2, zerolog.Nop(), w)
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	d.Record(domain.AuditEvent{Username: "late"})
	if len(w.snapshot()) != 0 {
		t.Fatal("event recorded after Stop must be dropped")
	}
}

func TestDispatcher_WriterErrorDoesNotStopOthers(t *testing.T) {
	failing := &memWriter{err: errors.New("mongo down")}
	ok := &memWriter{}

	var buf bytes.Buffer
	d := NewDispatcher(1, zerolog.New(&buf), failing, ok)
	d.Start(context.Background())
	d.Record(domain.AuditEvent{Action: domain.ActionUserDeleted, Username: "admin"})
	d.Stop()

	if len(ok.snapshot()) != 1 {
		t.Fatal("second writer must still receive the event")
	}
	if !bytes.Contains(buf.Bytes(), []byte("audit write failed")) {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	if d := NewDispatcher(0, zerolog.Nop()); len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewLogWriter(zerolog.New(&buf))

	_ = w.Write(context.Background(), domain.AuditEvent{
		Action:   domain.ActionAuthenticationFailed,
		Username: "ghost",
		Outcome:  "invalid_credentials",
		At:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["level"] != "warn" || entry["action"] != "user.authentication_failed" || entry["username"] != "ghost" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["user_id"]; ok {
		t.Fatal("unknown user must not log a user_id")
	}
}
