package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestUser_SafeDropsCredentialHash(t *testing.T) {
	u := &User{ID: 1, Username: "admin", PasswordHash: "$argon2id$secret", Roles: []string{RoleAdmin}}

	safe := u.Safe()
	b, err := json.Marshal(safe)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "argon2id") || strings.Contains(string(b), "hash") {
		t.Fatalf("safe view leaked credential: %s", b)
	}

	if _, ok := reflect.TypeOf(SafeUser{}).FieldByName("PasswordHash"); ok {
		t.Fatalf("SafeUser must not declare a PasswordHash field")
	}

	safe.Roles[0] = "mutated"
	if u.Roles[0] != RoleAdmin {
		t.Fatalf("Safe must copy roles")
	}
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	b, _ := json.Marshal(User{Username: "x", PasswordHash: "h"})
	if strings.Contains(string(b), `"h"`) {
		t.Fatalf("password hash serialised: %s", b)
	}
}

func TestNormalizeRoles(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{}, []string{}},
		{[]string{" admin ", "editor", "admin", ""}, []string{"admin", "editor"}},
		{[]string{"  ", ""}, []string{}},
	}
	for _, tt := range tests {
		got := NormalizeRoles(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeRoles(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUserPatch_Apply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	u := &User{FullName: "Old", Email: "old@example.com", Roles: []string{RoleViewer}, UpdatedAt: created}

	UserPatch{UpdatedAt: now}.Apply(u)
	if !u.UpdatedAt.Equal(created) {
		t.Fatalf("empty patch must not touch UpdatedAt")
	}

	name := "New"
	roles := []string{RoleEditor}
	UserPatch{FullName: &name, Roles: &roles, UpdatedAt: now}.Apply(u)

	if u.FullName != "New" || u.Email != "old@example.com" {
		t.Fatalf("unexpected fields: %+v", u)
	}
	if !reflect.DeepEqual(u.Roles, []string{RoleEditor}) {
		t.Fatalf("unexpected roles: %v", u.Roles)
	}
	if !u.UpdatedAt.Equal(now) {
		t.Fatalf("expected UpdatedAt %v, got %v", now, u.UpdatedAt)
	}

	roles[0] = "mutated"
	if u.Roles[0] != RoleEditor {
		t.Fatalf("Apply must copy roles")
	}
}

func TestSafeUser_HasRole(t *testing.T) {
	u := SafeUser{Roles: []string{RoleAdmin, RoleEditor}}
	if !u.HasRole(RoleAdmin) || u.HasRole(RoleViewer) {
		t.Fatalf("unexpected HasRole result for %v", u.Roles)
	}
}
