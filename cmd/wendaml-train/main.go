// Command wendaml-train runs the offline training jobs and publishes the
// resulting artifacts to the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wenda-travel/wendaml/internal/blob"
	"github.com/wenda-travel/wendaml/internal/config"
	"github.com/wenda-travel/wendaml/internal/dataset"
	"github.com/wenda-travel/wendaml/internal/db"
	logpkg "github.com/wenda-travel/wendaml/internal/logger"
	catalogrepo "github.com/wenda-travel/wendaml/internal/repository/catalog"
	registryrepo "github.com/wenda-travel/wendaml/internal/repository/registry"
	"github.com/wenda-travel/wendaml/internal/training"
	"github.com/wenda-travel/wendaml/internal/version"
)

func main() {
	job := flag.String("job", "all", "training job to run: forecast, segments, recommender, all")
	flag.Parse()

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

	logger.Info("Starting wendaml training run",
		zap.String("version", version.Version),
		zap.String("job", *job),
		zap.String("env", env),
		zap.Int64("seed", cfg.Training.Seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *job, logger); err != nil {
		logger.Fatal("Training run failed", zap.Error(err))
	}

	logger.Info("Training run finished")
}

func run(ctx context.Context, cfg config.Config, job string, logger *zap.Logger) error {
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("create artifact store: %w", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("artifact store not reachable: %w", err)
	}

	// The registry and the catalog need Postgres; the forecast job falls
	// back to parquet exports when no database is configured.
	var (
		reg     training.Registrar
		catalog training.CatalogSource
		stats   dataset.StatsSource
	)
	if cfg.Database.DSN != "" {
		conn, err := db.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer func() { _ = conn.Close() }()
		reg = registryrepo.New(conn)
		catalog = catalogrepo.New(conn)
		stats = dataset.NewPostgresSource(conn)
	} else {
		logger.Warn("No database configured, reading parquet exports and skipping registration",
			zap.String("data_dir", cfg.Training.DataDir))
		stats = dataset.NewParquetSource(cfg.Training.DataDir)
	}

	runForecast := job == "forecast" || job == "all"
	runSegments := job == "segments" || job == "all"
	runRecommender := job == "recommender" || job == "all"
	if !runForecast && !runSegments && !runRecommender {
		return fmt.Errorf("unknown job %q, expected forecast, segments, recommender or all", job)
	}

	if runForecast {
		j := training.NewForecastJob(stats, store, reg, logger,
			cfg.Training.Seed, cfg.Training.Estimators)
		if err := j.Run(ctx); err != nil {
			return fmt.Errorf("forecast job: %w", err)
		}
	}

	if runSegments {
		j := training.NewClusterJob(store, reg, logger,
			cfg.Training.Seed, cfg.Training.SyntheticSample, cfg.Training.Clusters)
		if err := j.Run(ctx); err != nil {
			return fmt.Errorf("clustering job: %w", err)
		}
	}

	if runRecommender {
		if catalog == nil {
			return fmt.Errorf("recommender job needs a database catalog, set database.dsn")
		}
		j := training.NewRecommenderJob(catalog, store, reg, logger, cfg.Training.VocabularySize)
		if err := j.Run(ctx); err != nil {
			return fmt.Errorf("recommender job: %w", err)
		}
	}

	return nil
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
