package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// DependencyCheck is one dependency the readiness endpoint verifies.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// MongoCheck pings the server and runs a ping command against the registry database.
func MongoCheck(db *mongo.Database) DependencyCheck {
	return DependencyCheck{
		Name: "mongodb",
		Check: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
	}
}

func RedisCheck(rdb *redis.Client) DependencyCheck {
	return DependencyCheck{
		Name: "redis",
		Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
}

// HealthHandler serves GET /health (liveness) and GET /health/ready (readiness).
// With no checks configured, as with the in-memory store, readiness is always ok.
type HealthHandler struct {
	checks []DependencyCheck
}

func NewHealthHandler(checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, dc := range h.checks {
		if err := dc.Check(ctx); err != nil {
			deps[dc.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[dc.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
