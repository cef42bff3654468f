// Package data owns the shared infrastructure handles: PostgreSQL,
// Redis and the object store.
package data

import (
	"context"
	"fmt"

	catalogdata "github.com/lokmitra/content-catalog-backend/internal/catalog/data"
	"github.com/lokmitra/content-catalog-backend/internal/conf"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/database"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/minio"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/redis"
	taxdata "github.com/lokmitra/content-catalog-backend/internal/taxonomy/data"
)

// Data bundles the infrastructure clients shared by the repositories
type Data struct {
	DB     *database.DB
	Redis  *redis.Client
	MinIO  *minio.Client
	Logger *logger.Logger
}

// NewData connects every backend and runs schema migration. The
// returned cleanup closes the connections in reverse order.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := database.New(&config.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rdb, err := redis.New(&config.Redis, log.Logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	minioClient, err := minio.NewClient(&config.MinIO.Config, log.Logger)
	if err != nil {
		rdb.Close()
		db.Close()
		return nil, nil, fmt.Errorf("failed to init minio: %w", err)
	}

	if err := minioClient.EnsureBucket(context.Background(), config.MinIO.Bucket); err != nil {
		minioClient.Close()
		rdb.Close()
		db.Close()
		return nil, nil, fmt.Errorf("failed to ensure bucket %q: %w", config.MinIO.Bucket, err)
	}

	d := &Data{
		DB:     db,
		Redis:  rdb,
		MinIO:  minioClient,
		Logger: log,
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		minioClient.Close()
		rdb.Close()
		db.Close()
	}

	return d, cleanup, nil
}

// migrate keeps the relational schema in step with the models. It is a
// no-op when auto migration is disabled in configuration.
func migrate(db *database.DB) error {
	return db.AutoMigrate(
		&taxdata.CategoryPO{},
		&taxdata.CategoryTranslationPO{},
		&taxdata.SubcategoryPO{},
		&taxdata.SubcategoryTranslationPO{},
		&taxdata.ContentTypePO{},
		&taxdata.ContentTypeTranslationPO{},
		&catalogdata.FileAssetPO{},
		&catalogdata.FileLabelPO{},
		&catalogdata.FileTagPO{},
	)
}
