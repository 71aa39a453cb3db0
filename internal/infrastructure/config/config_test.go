package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.StoreBackend)
	}
	if cfg.SeedSampleUsers || cfg.APIAuthRequired {
		t.Errorf("seeding and API auth must default to off")
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Auth.MaxFailures != 5 || cfg.Auth.LockoutWindow != 15*time.Minute {
		t.Errorf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Password.Algorithm != "argon2id" || cfg.Password.Argon2MemoryKiB != 65536 ||
		cfg.Password.Argon2Iterations != 3 || cfg.Password.Argon2Parallelism != 2 {
		t.Errorf("unexpected password defaults: %+v", cfg.Password)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected shutdown timeout: %v", cfg.ShutdownTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development env")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                "9090",
		"ENV":                 "production",
		"STORE_BACKEND":       "mongo",
		"MONGO_URI":           "mongodb://db:27017",
		"REDIS_ADDR":          "cache:6379",
		"AUTH_LOCKOUT_WINDOW": "1m",
		"PASSWORD_ALGORITHM":  "bcrypt",
		"SEED_SAMPLE_USERS":   "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" || cfg.IsDevelopment() {
		t.Errorf("unexpected server config: %+v", cfg)
	}
	if cfg.StoreBackend != BackendMongo || cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("unexpected mongo config: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Auth.LockoutWindow != time.Minute {
		t.Errorf("unexpected limiter config: %+v %+v", cfg.Redis, cfg.Auth)
	}
	if cfg.Password.Algorithm != "bcrypt" || !cfg.SeedSampleUsers {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	tests := map[string]map[string]string{
		"backend":   {"STORE_BACKEND": "postgres"},
		"algorithm": {"PASSWORD_ALGORITHM": "sha256"},
		"failures":  {"AUTH_MAX_FAILURES": "0"},
		"no admin":  {"API_AUTH_REQUIRED": "true"},
	}
	for name, env := range tests {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("%s: expected validation error", name)
		} else if !strings.HasPrefix(err.Error(), "config:") {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}

func TestLoad_BadDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"SHUTDOWN_TIMEOUT": "soon"}))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_AuthRequiredNeedsAnAdmin(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bootstrap admin", map[string]string{"API_AUTH_REQUIRED": "true", "ADMIN_PASSWORD": "s3cret"}},
		{"sample users", map[string]string{"API_AUTH_REQUIRED": "true", "SEED_SAMPLE_USERS": "true"}},
		{"mongo keeps its users", map[string]string{"API_AUTH_REQUIRED": "true", "STORE_BACKEND": "mongo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !cfg.APIAuthRequired || cfg.Admin.Username != "admin" {
				t.Fatalf("unexpected config: %+v", cfg)
			}
		})
	}
}
