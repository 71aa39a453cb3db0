package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-registry/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository persists registry audit events.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

func auditDocument(e domain.AuditEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"action":       string(e.Action),
		"username":     e.Username,
		"outcome":      e.Outcome,
		"at":           e.At.UTC(),
		"processed_at": processedAt.UTC(),
	}
	if e.UserID != 0 {
		doc["user_id"] = e.UserID
	}
	return doc
}

// Write inserts a single audit event.
func (r *AuditRepository) Write(ctx context.Context, e domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, auditDocument(e, time.Now()))
	return err
}
