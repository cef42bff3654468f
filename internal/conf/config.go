package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/database"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/minio"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/redis"
)

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
	MinIO    MinIOConfig     `mapstructure:"minio"`
	Log      logger.Config   `mapstructure:"log"`
	Catalog  CatalogConfig   `mapstructure:"catalog"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type MinIOConfig struct {
	minio.Config `mapstructure:",squash"`

	// Bucket holds every catalog object
	Bucket string `mapstructure:"bucket"`

	// PublicBaseURL is the prefix for deterministic public URLs
	// (e.g. a CDN or reverse proxy in front of the bucket)
	PublicBaseURL string `mapstructure:"public_base_url"`

	// PresignExpiry bounds presigned download URLs
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// CatalogConfig holds catalog and taxonomy behavior settings
type CatalogConfig struct {
	// FallbackLanguage is the second-choice language for every
	// localized lookup
	FallbackLanguage string `mapstructure:"fallback_language"`

	// Languages lists the cached listing languages; taxonomy cache
	// invalidation covers exactly these
	Languages []string `mapstructure:"languages"`

	// DefaultPageSize applies when a query omits take
	DefaultPageSize int `mapstructure:"default_page_size"`

	// MaxUploadFiles caps the number of files per ingestion call
	MaxUploadFiles int `mapstructure:"max_upload_files"`

	// MaxFileSize caps a single uploaded file, in bytes
	MaxFileSize int64 `mapstructure:"max_file_size"`

	// CacheTTL bounds taxonomy listing staleness
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setDefaults()

	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Catalog.FallbackLanguage == "" {
		c.Catalog.FallbackLanguage = "hi"
	}
	if len(c.Catalog.Languages) == 0 {
		c.Catalog.Languages = []string{"hi", "en"}
	}
	if c.Catalog.DefaultPageSize <= 0 {
		c.Catalog.DefaultPageSize = 20
	}
	if c.Catalog.MaxUploadFiles <= 0 {
		c.Catalog.MaxUploadFiles = 10
	}
	if c.Catalog.MaxFileSize <= 0 {
		c.Catalog.MaxFileSize = 100 << 20 // 100 MB
	}
	if c.Catalog.CacheTTL <= 0 {
		c.Catalog.CacheTTL = 10 * time.Minute
	}
	if c.MinIO.PresignExpiry <= 0 {
		c.MinIO.PresignExpiry = 15 * time.Minute
	}
}
