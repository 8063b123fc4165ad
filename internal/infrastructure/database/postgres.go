package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/sangkips/receipts-api/internal/config"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the database selected by cfg.Driver
func NewDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.DSN(), debug)
	case "postgres", "":
		return NewPostgresDB(cfg, debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig(debug bool) *gorm.Config {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Project{},
		&entity.Receipt{},
		&entity.ReceiptItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// DemoProjectCode is the code of the project created by SeedDefaultData
const DemoProjectCode = "DEMO"

// SeedDefaultData creates a demo project with a small extra field schema so a
// fresh development database can issue receipts straight away.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var existing entity.Project
	err := db.Unscoped().Where("code = ?", DemoProjectCode).First(&existing).Error
	if err == nil {
		log.Printf("Demo project already exists: %s", DemoProjectCode)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	demo := entity.Project{
		Code:           DemoProjectCode,
		Name:           "Demo Store",
		PrimaryColor:   "#1F2937",
		SecondaryColor: "#F59E0B",
		Address:        "1 Market Street",
		FooterNote:     "Thank you for shopping with us",
		IsActive:       true,
		ReceiptExtraSchema: extrafield.Schema{
			{Key: "po_number", Label: "PO Number", Type: extrafield.TypeString},
			{Key: "delivery_date", Label: "Delivery Date", Type: extrafield.TypeDate},
			{Key: "tier", Label: "Customer Tier", Type: extrafield.TypeEnum, Options: []string{"REGULAR", "GOLD"}},
		},
	}
	if err := db.Create(&demo).Error; err != nil {
		return fmt.Errorf("failed to create demo project: %w", err)
	}

	log.Println("Default data seeding completed")
	return nil
}
