package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jcbcommunity/internal/config"
	"jcbcommunity/internal/database"
	"jcbcommunity/internal/metrics"
	"jcbcommunity/internal/password"
	"jcbcommunity/internal/repository"
	"jcbcommunity/internal/service"
	"jcbcommunity/internal/storage"
)

type Deps struct {
	DB       *database.DB
	Storage  *storage.MinIOClient
	Repo     *repository.Repository
	Services *service.Service
	Metrics  *metrics.Metrics
}

// App connects the database and the object store and wires the services.
// An unreachable bucket is logged, not fatal: uploads degrade to placeholders.
func App(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	// connection DB
	db, err := database.ConnectDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		db.CloseDB()
		return nil, err
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to initialize MinIO: %w", err)
	}
	if err := minioClient.EnsureBucket(ctx, cfg.MinIO.Region); err != nil {
		logger.Warn("object storage bucket unavailable",
			zap.String("bucket", cfg.MinIO.BucketName),
			zap.Error(err))
	}

	// enabling dependencies
	m := metrics.New()
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, password.NewHasher(cfg.BcryptCost), m, logger)

	return &Deps{
		DB:       db,
		Storage:  minioClient,
		Repo:     repo,
		Services: services,
		Metrics:  m,
	}, nil
}
