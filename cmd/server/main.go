package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogbiz "github.com/lokmitra/content-catalog-backend/internal/catalog/biz"
	catalogdata "github.com/lokmitra/content-catalog-backend/internal/catalog/data"
	catalogservice "github.com/lokmitra/content-catalog-backend/internal/catalog/service"
	"github.com/lokmitra/content-catalog-backend/internal/conf"
	"github.com/lokmitra/content-catalog-backend/internal/data"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/server"
	taxbiz "github.com/lokmitra/content-catalog-backend/internal/taxonomy/biz"
	taxdata "github.com/lokmitra/content-catalog-backend/internal/taxonomy/data"
	taxservice "github.com/lokmitra/content-catalog-backend/internal/taxonomy/service"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(&config.Log); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Initialize data layer
	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Initialize repositories
	categoryRepo := taxdata.NewCategoryRepo(d.DB)
	subcategoryRepo := taxdata.NewSubcategoryRepo(d.DB)
	contentTypeRepo := taxdata.NewContentTypeRepo(d.DB)
	listingCache := taxdata.NewListingCache(d.Redis, log)
	fileRepo := catalogdata.NewFileRepo(d.DB)
	objectStore := catalogdata.NewObjectStore(d.MinIO, config.MinIO)
	taxonomyReader := catalogdata.NewTaxonomyReader(categoryRepo, subcategoryRepo, contentTypeRepo)

	// Initialize use cases
	taxConfig := taxbiz.Config{
		FallbackLanguage: config.Catalog.FallbackLanguage,
		Languages:        config.Catalog.Languages,
		CacheTTL:         config.Catalog.CacheTTL,
	}
	categoryUseCase := taxbiz.NewCategoryUseCase(categoryRepo, subcategoryRepo, contentTypeRepo, listingCache, taxConfig, log)
	subcategoryUseCase := taxbiz.NewSubcategoryUseCase(subcategoryRepo, categoryRepo, contentTypeRepo, listingCache, taxConfig, log)
	contentTypeUseCase := taxbiz.NewContentTypeUseCase(contentTypeRepo, categoryRepo, subcategoryRepo, taxConfig, log)

	catalogConfig := catalogbiz.Config{
		FallbackLanguage: config.Catalog.FallbackLanguage,
		DefaultPageSize:  config.Catalog.DefaultPageSize,
		MaxUploadFiles:   config.Catalog.MaxUploadFiles,
		MaxFileSize:      config.Catalog.MaxFileSize,
	}
	ingestUseCase := catalogbiz.NewIngestUseCase(fileRepo, objectStore, taxonomyReader, catalogConfig, log)
	queryUseCase := catalogbiz.NewFileQueryUseCase(fileRepo, objectStore, taxonomyReader, catalogConfig, log)

	// Initialize services
	taxonomyService := taxservice.NewTaxonomyService(categoryUseCase, subcategoryUseCase, contentTypeUseCase, log)
	fileService := catalogservice.NewFileService(ingestUseCase, queryUseCase, log)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(config, log.Logger, taxonomyService, fileService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
