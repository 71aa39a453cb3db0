package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/user-registry/internal/core/domain"
)

func TestMongoUser_RoundTripKeepsFields(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	u := &domain.User{
		ID:           7,
		Username:     "mariaf",
		PasswordHash: "$argon2id$x",
		FullName:     "María Fernández",
		Email:        "maria@example.com",
		Roles:        []string{domain.RoleEditor},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	raw, err := bson.Marshal(toMongoUser(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded mongoUser
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := decoded.toDomain()
	if !got.CreatedAt.Equal(ts) || !got.UpdatedAt.Equal(ts) {
		t.Fatalf("timestamps changed: %v %v", got.CreatedAt, got.UpdatedAt)
	}
	got.CreatedAt, got.UpdatedAt = ts, ts
	if !reflect.DeepEqual(got, u) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, u)
	}

	var m bson.M
	_ = bson.Unmarshal(raw, &m)
	if m["_id"] != int64(7) {
		t.Fatalf("expected numeric _id, got %T %v", m["_id"], m["_id"])
	}
}

func TestMongoUser_NilRolesBecomeEmpty(t *testing.T) {
	if got := toMongoUser(&domain.User{}).Roles; got == nil {
		t.Fatal("roles must be stored as an empty array, not null")
	}
	if got := (mongoUser{}).toDomain().Roles; got == nil || len(got) != 0 {
		t.Fatalf("expected empty roles, got %v", got)
	}
}

func TestPatchUpdate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if patchUpdate(domain.UserPatch{UpdatedAt: now}) != nil {
		t.Fatal("empty patch must produce no update")
	}

	email := "x@example.com"
	hash := "$2a$new"
	var cleared []string
	update := patchUpdate(domain.UserPatch{Email: &email, PasswordHash: &hash, Roles: &cleared, UpdatedAt: now})

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set document, got %v", update)
	}
	if set["email"] != email || set["password_hash"] != hash {
		t.Fatalf("unexpected $set: %v", set)
	}
	if roles, ok := set["roles"].([]string); !ok || roles == nil || len(roles) != 0 {
		t.Fatalf("expected empty roles array, got %#v", set["roles"])
	}
	if _, ok := set["full_name"]; ok {
		t.Fatal("full_name must not be set when absent from the patch")
	}
	if set["updated_at"] != now {
		t.Fatalf("expected updated_at %v, got %v", now, set["updated_at"])
	}
}

func TestAuditDocument(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	doc := auditDocument(domain.AuditEvent{
		Action:   domain.ActionAuthenticationFailed,
		Username: "ghost",
		Outcome:  "invalid_credentials",
		At:       at,
	}, at)
	if doc["action"] != "user.authentication_failed" || doc["username"] != "ghost" {
		t.Fatalf("unexpected doc: %v", doc)
	}
	if _, ok := doc["user_id"]; ok {
		t.Fatal("unknown users must not carry a user_id")
	}

	doc = auditDocument(domain.AuditEvent{Action: domain.ActionUserCreated, UserID: 3, At: at}, at)
	if doc["user_id"] != int64(3) {
		t.Fatalf("expected user_id 3, got %v", doc["user_id"])
	}
}
