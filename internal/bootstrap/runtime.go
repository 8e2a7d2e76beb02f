// Package bootstrap wires the process-wide runtime: database, cache and
// tracing. Both the API server and the seeder go through InitRuntime so
// their environments stay identical.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"entangl/internal/cache"
	"entangl/internal/config"
	"entangl/internal/database"
	"entangl/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the shared process dependencies.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	tracingShutdown func(context.Context) error
}

// InitRuntime connects to the database and Redis and initializes tracing.
// A nil Redis client means the cache is unreachable; callers degrade to
// uncached behavior rather than failing.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()
	if r == nil {
		log.Println("Redis unavailable; continuing without cache and pub/sub")
	}

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "entangl-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExport,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	return &Runtime{
		Config:          cfg,
		DB:              db,
		Redis:           r,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Shutdown flushes tracing spans. Database and Redis connections are owned
// by the server and closed there.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.tracingShutdown == nil {
		return nil
	}
	return r.tracingShutdown(ctx)
}
