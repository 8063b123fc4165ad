package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Signing  SigningConfig
	Public   PublicConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Receipt  ReceiptConfig
	Printer  PrinterConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	SeedDemo bool
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Path     string // sqlite file path
}

// SigningConfig holds the HMAC key used for public share links.
type SigningConfig struct {
	Secret string
}

type PublicConfig struct {
	BaseURL string
}

type StorageConfig struct {
	Driver        string // local or minio
	Path          string
	PublicPrefix  string
	UploadMaxSize int64
	Minio         MinioConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// CacheConfig configures the optional Redis cache for public receipt views.
// An empty Addr disables caching.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type ReceiptConfig struct {
	LockTimeout time.Duration
}

// PrinterConfig selects the thermal printer used for printed receipts.
type PrinterConfig struct {
	Type    string // none, usb or network
	USBPath string
	Address string
	Width   int // characters per line
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "receipts-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("SEED_DEMO_DATA", false)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "receipts")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_PATH", "./receipts.db")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	viper.SetDefault("STORAGE_DRIVER", "local")
	viper.SetDefault("STORAGE_PATH", "./uploads")
	viper.SetDefault("STORAGE_PUBLIC_PREFIX", "/uploads")
	viper.SetDefault("UPLOAD_MAX_SIZE", 2097152)
	viper.SetDefault("MINIO_BUCKET", "receipts")
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("RECEIPT_LOCK_TIMEOUT_MS", 5000)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			SeedDemo: viper.GetBool("SEED_DEMO_DATA"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Path:     viper.GetString("DB_PATH"),
		},
		Signing: SigningConfig{
			Secret: viper.GetString("SIGNING_SECRET"),
		},
		Public: PublicConfig{
			BaseURL: strings.TrimRight(viper.GetString("PUBLIC_BASE_URL"), "/"),
		},
		Storage: StorageConfig{
			Driver:        viper.GetString("STORAGE_DRIVER"),
			Path:          viper.GetString("STORAGE_PATH"),
			PublicPrefix:  viper.GetString("STORAGE_PUBLIC_PREFIX"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
			Minio: MinioConfig{
				Endpoint:  viper.GetString("MINIO_ENDPOINT"),
				AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey: viper.GetString("MINIO_SECRET_KEY"),
				Bucket:    viper.GetString("MINIO_BUCKET"),
				UseSSL:    viper.GetBool("MINIO_USE_SSL"),
				PublicURL: strings.TrimRight(viper.GetString("MINIO_PUBLIC_URL"), "/"),
			},
		},
		Cache: CacheConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Receipt: ReceiptConfig{
			LockTimeout: time.Duration(viper.GetInt("RECEIPT_LOCK_TIMEOUT_MS")) * time.Millisecond,
		},
		Printer: PrinterConfig{
			Type:    strings.ToLower(viper.GetString("PRINTER_TYPE")),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
	}
}

// Validate reports configuration that must be fixed before the server starts.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Signing.Secret) == "" {
		errs = append(errs, errors.New("SIGNING_SECRET is required"))
	}
	if c.Public.BaseURL == "" {
		errs = append(errs, errors.New("PUBLIC_BASE_URL is required"))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, errors.New("DB_DRIVER must be postgres or sqlite"))
	}
	switch c.Storage.Driver {
	case "local":
	case "minio":
		if c.Storage.Minio.Endpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required when STORAGE_DRIVER=minio"))
		}
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be local or minio"))
	}
	switch c.Printer.Type {
	case "", "none":
	case "usb":
		if c.Printer.USBPath == "" {
			errs = append(errs, errors.New("PRINTER_USB_PATH is required when PRINTER_TYPE=usb"))
		}
	case "network":
		if c.Printer.Address == "" {
			errs = append(errs, errors.New("PRINTER_ADDRESS is required when PRINTER_TYPE=network"))
		}
	default:
		errs = append(errs, errors.New("PRINTER_TYPE must be none, usb or network"))
	}
	return errors.Join(errs...)
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
