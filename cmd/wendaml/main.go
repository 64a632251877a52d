package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/config"
	"github.com/wenda-travel/wendaml/internal/db"
	"github.com/wenda-travel/wendaml/internal/domain"
	logpkg "github.com/wenda-travel/wendaml/internal/logger"
	"github.com/wenda-travel/wendaml/internal/metrics"
	"github.com/wenda-travel/wendaml/internal/model"
	"github.com/wenda-travel/wendaml/internal/modelcache"
	catalogrepo "github.com/wenda-travel/wendaml/internal/repository/catalog"
	historyrepo "github.com/wenda-travel/wendaml/internal/repository/history"
	"github.com/wenda-travel/wendaml/internal/transport/httpapi"
	forecastuc "github.com/wenda-travel/wendaml/internal/usecase/forecast"
	healthuc "github.com/wenda-travel/wendaml/internal/usecase/health"
	recommenduc "github.com/wenda-travel/wendaml/internal/usecase/recommend"
	segmentuc "github.com/wenda-travel/wendaml/internal/usecase/segment"
	"github.com/wenda-travel/wendaml/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wendaml API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("artifact_backend", cfg.Artifacts.Backend),
	)

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("Failed to create artifact store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		logger.Fatal("Artifact store not reachable", zap.Error(err))
	}

	metrics.RegisterModelMetrics()

	// Database is optional: without it forecasts fall back to the static
	// base table and recommendations have no catalog fallback.
	var (
		history  forecastuc.HistoryProvider = noHistory{}
		catalog  httpapi.Catalog
		dbPinger healthuc.DBPinger
	)
	if cfg.Database.DSN != "" {
		conn, err := db.Open(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() { _ = conn.Close() }()
		history = historyrepo.New(conn)
		catalog = catalogrepo.New(conn)
		dbPinger = conn
		logger.Info("Connected to database")
	} else {
		logger.Warn("No database configured, serving with static fallbacks only")
	}

	forecastCache, err := modelcache.New(store, cfg.Artifacts.CacheSize, model.DecodeForecast, logger)
	if err != nil {
		logger.Fatal("Failed to create forecast cache", zap.Error(err))
	}
	clusterCache, err := modelcache.New(store, cfg.Artifacts.CacheSize, model.DecodeCluster, logger)
	if err != nil {
		logger.Fatal("Failed to create cluster cache", zap.Error(err))
	}
	recommenderCache, err := modelcache.New(store, cfg.Artifacts.CacheSize, model.DecodeRecommender, logger)
	if err != nil {
		logger.Fatal("Failed to create recommender cache", zap.Error(err))
	}

	lister := storeLister{store: store}

	forecastSvc := forecastuc.New(metered(forecastCache), history, metrics.PredictionRecorder{}, logger).
		WithBaseVisitors(cfg.Regions.BaseVisitors)
	segmentSvc := segmentuc.New(metered(clusterCache))
	recommendSvc := recommenduc.New(metered(recommenderCache))
	healthSvc := healthuc.New(store, dbPinger, lister)

	server := httpapi.NewServer(
		forecastSvc, segmentSvc, recommendSvc, healthSvc,
		lister, catalog, cfg.Regions.Supported, logger,
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func newStore(cfg config.Config) (blob.Store, error) {
	switch cfg.Artifacts.Backend {
	case "redis":
		return blob.NewRedisStore(blob.RedisConfig{
			Addrs:     cfg.Artifacts.Addrs,
			Password:  cfg.Artifacts.Password,
			KeyPrefix: cfg.Artifacts.KeyPrefix,
		})
	default:
		return blob.NewFSStore(cfg.Artifacts.Dir)
	}
}

// noHistory is the history provider used without a database: every lookup
// misses, which routes the baseline to the static base table.
type noHistory struct{}

func (noHistory) AverageVisitors(context.Context, string, int) (float64, bool, error) {
	return 0, false, nil
}

// storeLister adapts the artifact store to the listing contract.
type storeLister struct {
	store blob.Store
}

func (l storeLister) ListAvailable(ctx context.Context) ([]domain.ArtifactInfo, error) {
	return modelcache.ListAvailable(ctx, l.store, "")
}

// meteredCache counts artifact loads by key and outcome.
type meteredCache[V any] struct {
	cache *modelcache.Cache[V]
}

func metered[V any](c *modelcache.Cache[V]) meteredCache[V] {
	return meteredCache[V]{cache: c}
}

func (m meteredCache[V]) Get(ctx context.Context, key string) (V, error) {
	v, err := m.cache.Get(ctx, key)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ModelLoadsTotal.WithLabelValues(key, outcome).Inc()
	return v, err
}
