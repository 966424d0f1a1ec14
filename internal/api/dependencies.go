package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/config"
	"maverick/dispatch/internal/db/repositories"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/services"
	"maverick/dispatch/internal/workers"
)

type Repositories struct {
	Sorties     *repositories.SortieRepo
	Snapshots   *repositories.EnvironmentSnapshotRepo
	Annotations *repositories.DispatchAnnotationRepo
	SyncEvents  *repositories.SyncEventRepo
}

type Services struct {
	Cache       common.CacheInterface
	SyncQueue   *common.RedisQueueService
	Environment *services.EnvironmentService
	Sorties     *services.SortieService
	Lifecycle   *services.SortieLifecycleService
	Dispatch    *services.DispatchAnnotationService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Emitter  *workers.AsyncSyncEmitter
	Metrics  *metrics.MetricsRegistry
	Tokens   *auth.TokenService
}

// InitDependencies wires repositories, services and the sync emitter.
// redisClient may be nil: the cache falls back to in-memory and the stream sink is skipped.
// The caller owns Emitter.Run and Emitter.Close.
func InitDependencies(
	cfg *config.Config,
	gdb *gorm.DB,
	sqlDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	repos := &Repositories{
		Sorties:     repositories.NewSortieRepo(gdb),
		Snapshots:   repositories.NewEnvironmentSnapshotRepo(gdb),
		Annotations: repositories.NewDispatchAnnotationRepo(gdb),
		SyncEvents:  repositories.NewSyncEventRepo(sqlDB),
	}

	var cache common.CacheInterface
	var syncQueue *common.RedisQueueService
	var sinks []workers.SyncSink

	if cfg.Sync.SQLLog {
		sinks = append(sinks, repos.SyncEvents)
	}

	if redisClient != nil {
		cache = common.NewRedisCacheService(redisClient)
		syncQueue = common.NewRedisQueueService(redisClient, cfg.Sync.Stream, cfg.Sync.StreamMaxLen)
		sinks = append(sinks, syncQueue)
		logging.Info("Using Redis for snapshot cache and sync stream", "stream", cfg.Sync.Stream)
	} else {
		cache = common.NewCacheService(cfg.CacheTTL, 2*cfg.CacheTTL)
		logging.Info("Using in-memory snapshot cache")
	}

	emitter := workers.NewAsyncSyncEmitter(workers.SyncEmitterOptions{
		Buffer:      cfg.Sync.Buffer,
		Workers:     cfg.Sync.Workers,
		SinkTimeout: cfg.Sync.SinkTimeout,
	}, metricsReg, sinks...)

	envSvc := services.NewEnvironmentService(repos.Snapshots, cache, cfg.CacheTTL, emitter, metricsReg)

	svcs := &Services{
		Cache:       cache,
		SyncQueue:   syncQueue,
		Environment: envSvc,
		Sorties:     services.NewSortieService(repos.Sorties, emitter, metricsReg),
		Lifecycle:   services.NewSortieLifecycleService(repos.Sorties, emitter, metricsReg),
		Dispatch:    services.NewDispatchAnnotationService(repos.Sorties, repos.Annotations, envSvc, emitter, metricsReg),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Emitter:  emitter,
		Metrics:  metricsReg,
		Tokens:   auth.NewTokenService([]byte(cfg.JWTSecret)),
	}, nil
}
