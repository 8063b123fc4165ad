package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/config"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/infrastructure/cache"
	"github.com/sangkips/receipts-api/internal/infrastructure/database"
	"github.com/sangkips/receipts-api/internal/infrastructure/repository"
	"github.com/sangkips/receipts-api/internal/infrastructure/storage"
	"github.com/sangkips/receipts-api/internal/presentation/http/handler"
	"github.com/sangkips/receipts-api/internal/presentation/http/routes"
	"github.com/sangkips/receipts-api/pkg/printer"
	"github.com/sangkips/receipts-api/pkg/signing"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database: %s", cfg.Database.Driver)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.App.SeedDemo {
		if err := database.SeedDefaultData(db); err != nil {
			log.Printf("Warning: Failed to seed default data: %v", err)
		}
	}

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	transactor := repository.NewTransactor(db, cfg.Receipt.LockTimeout)

	if removed, err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("Warning: Failed to prune idempotency keys: %v", err)
	} else if removed > 0 {
		log.Printf("Pruned %d expired idempotency keys", removed)
	}

	signer, err := signing.New(cfg.Signing.Secret)
	if err != nil {
		log.Fatalf("Failed to initialize signer: %v", err)
	}

	blobs, local := newBlobStore(cfg)
	receiptCache := newPublicReceiptCache(cfg)

	// Initialize services
	receiptService := service.NewReceiptService(transactor, projectRepo, receiptRepo, service.NewSequenceAllocator(projectRepo))
	publicService := service.NewPublicReceiptService(receiptRepo, receiptCache, signer, cfg.Public.BaseURL)
	projectService := service.NewProjectService(projectRepo, blobs, receiptCache, cfg.Storage.UploadMaxSize)

	thermal, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Fatalf("Failed to initialize printer: %v", err)
	}
	log.Printf("Printer: %s", cfg.Printer.Type)
	printerService := service.NewPrinterService(receiptService, thermal, cfg.Printer.Type, cfg.Printer.Width)

	// Initialize handlers
	handlers := &routes.Handlers{
		Project: handler.NewProjectHandler(projectService),
		Receipt: handler.NewReceiptHandler(receiptService, publicService),
		Public:  handler.NewPublicHandler(publicService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	deps := &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	}
	if local != nil {
		deps.Uploads = local.Fs()
		deps.UploadsPrefix = local.PublicPrefix()
	}
	router := routes.Setup(handlers, deps)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newBlobStore returns the configured blob store. The local store is also
// returned when blobs live on disk and must be served by the API.
func newBlobStore(cfg *config.Config) (domainRepo.BlobStore, *storage.LocalBlobStore) {
	if cfg.Storage.Driver == "minio" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		store, err := storage.NewMinioBlobStore(ctx, cfg.Storage.Minio)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO storage: %v", err)
		}
		log.Printf("Blob store: minio bucket %s", cfg.Storage.Minio.Bucket)
		return store, nil
	}

	store, err := storage.NewOsBlobStore(cfg.Storage.Path, cfg.Storage.PublicPrefix)
	if err != nil {
		log.Fatalf("Failed to initialize local storage: %v", err)
	}
	log.Printf("Blob store: local %s served at %s", cfg.Storage.Path, store.PublicPrefix())
	return store, store
}

// newPublicReceiptCache connects to Redis when configured. An unreachable
// server disables caching.
func newPublicReceiptCache(cfg *config.Config) domainRepo.PublicReceiptCache {
	if cfg.Cache.Addr == "" {
		log.Printf("Cache: disabled")
		return cache.NewNoopPublicReceiptCache()
	}
	client, err := cache.ConnectRedis(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	if err != nil {
		log.Printf("Warning: Redis unavailable, caching disabled: %v", err)
		return cache.NewNoopPublicReceiptCache()
	}
	log.Printf("Cache: redis %s", cfg.Cache.Addr)
	return cache.NewRedisPublicReceiptCache(client, cfg.Cache.TTL)
}
