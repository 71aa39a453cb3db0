// @title           User Registry API
// @version         1.0
// @description     In-memory or MongoDB-backed user registry with salted, memory-hard credential hashing.
// @BasePath        /
// @securityDefinitions.basic  BasicAuth
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-registry/internal/api"
	"github.com/99minutos/user-registry/internal/api/handler"
	"github.com/99minutos/user-registry/internal/core/ports"
	"github.com/99minutos/user-registry/internal/core/service"
	"github.com/99minutos/user-registry/internal/infrastructure/config"
	"github.com/99minutos/user-registry/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/user-registry/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-registry/internal/infrastructure/db/redis"
	"github.com/99minutos/user-registry/internal/infrastructure/queue"
	"github.com/99minutos/user-registry/internal/pkg/password"
	"github.com/99minutos/user-registry/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("error loading config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-registry",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		repo    ports.UserRepository
		writers = []queue.Writer{queue.NewLogWriter(logger.Component("audit"))}
		checks  []handler.DependencyCheck
		opts    []service.Option
	)

	// --- Storage ---
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, users, audit, err := mongodb.Setup(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()
		repo = users
		writers = append(writers, audit)
		checks = append(checks, handler.MongoCheck(client.Database(cfg.Mongo.Database)))
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")
	default:
		repo = memory.NewUserRepository()
		log.Info().Msg("using in-memory store")
	}

	// --- Attempt limiter (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}()
		opts = append(opts, service.WithAttemptLimiter(
			redisdb.NewAttemptLimiter(rdb, cfg.Auth.MaxFailures, cfg.Auth.LockoutWindow)))
		checks = append(checks, handler.RedisCheck(rdb))
		log.Info().Int("max_failures", cfg.Auth.MaxFailures).Dur("window", cfg.Auth.LockoutWindow).Msg("attempt limiter enabled")
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, logger.Component("dispatcher"), writers...)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()
	opts = append(opts, service.WithAuditSink(dispatcher))

	// --- Registry ---
	hasher, err := password.New(password.Options{
		Algorithm: cfg.Password.Algorithm,
		Argon2: password.Argon2Params{
			Memory:      cfg.Password.Argon2MemoryKiB,
			Iterations:  cfg.Password.Argon2Iterations,
			Parallelism: cfg.Password.Argon2Parallelism,
		},
		BcryptCost: cfg.Password.BcryptCost,
	})
	if err != nil {
		return err
	}

	users, err := service.NewUserService(repo, hasher, opts...)
	if err != nil {
		return err
	}
	if err := users.SyncLiveUsers(ctx); err != nil {
		return err
	}

	if cfg.SeedSampleUsers {
		n, err := users.Seed(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("created", n).Msg("sample users seeded")
	}
	if cfg.Admin.Password != "" {
		created, err := users.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			return err
		}
		log.Info().Str("username", cfg.Admin.Username).Bool("created", created).Msg("admin account ensured")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Users:        users,
		Logger:       logger.Component("http"),
		AuthRequired: cfg.APIAuthRequired,
		Checks:       checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("auth_required", cfg.APIAuthRequired).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
