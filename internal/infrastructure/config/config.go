package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,              default=8080"`
	Env             string        `env:"ENV,               default=development"`
	LogLevel        string        `env:"LOG_LEVEL,         default=info"`
	SeedSampleUsers bool          `env:"SEED_SAMPLE_USERS, default=false"`
	APIAuthRequired bool          `env:"API_AUTH_REQUIRED, default=false"`
	StoreBackend    string        `env:"STORE_BACKEND,     default=memory"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,     default=4"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,  default=10s"`

	Admin    AdminConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Password PasswordConfig
}

// AdminConfig bootstraps an admin account at startup when Password is set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_registry"`
}

// RedisConfig is optional; an empty Addr disables the attempt limiter.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuthConfig struct {
	MaxFailures   int           `env:"AUTH_MAX_FAILURES,   default=5"`
	LockoutWindow time.Duration `env:"AUTH_LOCKOUT_WINDOW, default=15m"`
}

type PasswordConfig struct {
	Algorithm         string `env:"PASSWORD_ALGORITHM, default=argon2id"`
	Argon2MemoryKiB   uint32 `env:"ARGON2_MEMORY_KIB,  default=65536"`
	Argon2Iterations  uint32 `env:"ARGON2_ITERATIONS,  default=3"`
	Argon2Parallelism uint8  `env:"ARGON2_PARALLELISM, default=2"`
	BcryptCost        int    `env:"BCRYPT_COST,        default=10"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings that would only fail later at wiring time.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.Password.Algorithm {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("config: unknown PASSWORD_ALGORITHM %q", c.Password.Algorithm)
	}
	if c.Auth.MaxFailures <= 0 {
		return fmt.Errorf("config: AUTH_MAX_FAILURES must be positive")
	}
	// An empty in-memory registry behind API auth has nobody who can sign in.
	if c.APIAuthRequired && c.StoreBackend == BackendMemory && !c.SeedSampleUsers && c.Admin.Password == "" {
		return fmt.Errorf("config: API_AUTH_REQUIRED with the memory store needs ADMIN_PASSWORD or SEED_SAMPLE_USERS")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
