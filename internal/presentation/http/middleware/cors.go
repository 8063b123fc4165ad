package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Content-Type", "Origin", "X-Request-ID"}
)

// CORSMiddleware lets the admin and receipt frontends call the API from the
// browser. Credentials are never allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	headers := orDefault(cfg.AllowedHeaders, defaultHeaders)
	if !slices.Contains(headers, IdempotencyKeyHeader) {
		headers = append(slices.Clone(headers), IdempotencyKeyHeader)
	}

	return cors.New(cors.Config{
		AllowOrigins:  orDefault(cfg.AllowedOrigins, defaultOrigins),
		AllowMethods:  orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:  headers,
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID", IdempotencyReplayedHeader},
		MaxAge:        12 * time.Hour,
	})
}

func orDefault(values, defaults []string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}
