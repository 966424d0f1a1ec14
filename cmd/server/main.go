package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"maverick/dispatch/internal/api"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/config"
	"maverick/dispatch/internal/db"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Dispatch service starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DB.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	gdb, err := db.InitORM(cfg.DB)
	if err != nil {
		logging.Fatal("Failed to connect to database (GORM)", "error", err.Error())
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			logging.Fatal("Failed to migrate schema", "error", err.Error())
		}
		logging.Info("Schema migrated")
	}

	sqlDB, err := db.OpenSQLX(cfg.DB, gdb)
	if err != nil {
		logging.Fatal("Failed to open sqlx handle", "error", err.Error())
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = common.NewRedisClient(common.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, sqlDB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	router := routes.RegisterRoutes(deps, routes.RouterOptions{
		UpSince:     time.Now(),
		IngestRate:  cfg.IngestRate,
		IngestBurst: cfg.IngestBurst,
	})

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Emitter.Run(gctx)
	})

	g.Go(func() error {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("HTTP shutdown failed", "error", err.Error())
		}
		// requests are done; flush what they emitted
		if err := deps.Emitter.Close(shutdownCtx); err != nil {
			logging.Error("Sync emitter did not drain", "error", err.Error())
		}
		if err := deps.Services.Cache.Close(); err != nil {
			logging.Warn("Cache close failed", "error", err.Error())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error("Dispatch service stopped with error", "error", err.Error())
		os.Exit(1)
	}
	logging.Info("Dispatch service stopped")
}
