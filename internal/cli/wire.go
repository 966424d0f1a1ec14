package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"maverick/dispatch/internal/api"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/config"
	"maverick/dispatch/internal/db"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
)

const flushTimeout = 10 * time.Second

// session is one CLI invocation's dependency graph
type session struct {
	cfg  *config.Config
	deps *api.Dependencies
	stop func()
}

// openSession wires the same services the server uses and starts the sync emitter.
// Call stop to flush pending sync events.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return nil, err
	}

	gdb, err := db.InitORM(cfg.DB)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.OpenSQLX(cfg.DB, gdb)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = common.NewRedisClient(common.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	deps, err := api.InitDependencies(cfg, gdb, sqlDB, redisClient, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		return nil, fmt.Errorf("failed to wire services: %w", err)
	}

	go func() {
		_ = deps.Emitter.Run(context.Background())
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := deps.Emitter.Close(ctx); err != nil {
			logging.Warn("Sync events not flushed", "error", err.Error())
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = logging.Close()
	}

	return &session{cfg: cfg, deps: deps, stop: stop}, nil
}
