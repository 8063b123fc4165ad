package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/config"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/presentation/http/handler"
	"github.com/sangkips/receipts-api/internal/presentation/http/middleware"
	"github.com/spf13/afero"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Project *handler.ProjectHandler
	Receipt *handler.ReceiptHandler
	Public  *handler.PublicHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// Uploads is served under UploadsPrefix when blobs are stored locally.
	// Nil when an object store serves them.
	Uploads       afero.Fs
	UploadsPrefix string
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.Uploads != nil {
		uploads := router.Group(deps.UploadsPrefix, middleware.UploadHeaders())
		uploads.StaticFS("", filesOnly{afero.NewHttpFs(deps.Uploads)})
	}

	api := router.Group("/api")
	{
		registerAdminRoutes(api.Group("/admin"), h, deps)
		registerPublicRoutes(api.Group("/public"), h)
	}

	return router
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers, deps *Deps) {
	projects := admin.Group("/projects")
	{
		projects.GET("", h.Project.List)
		projects.POST("", h.Project.Create)
		projects.GET("/:id", h.Project.Get)
		projects.PUT("/:id", h.Project.Update)
		projects.DELETE("/:id", h.Project.Delete)
		projects.POST("/:id/logo", h.Project.UploadLogo)
	}

	receipts := admin.Group("/receipts")
	{
		receipts.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Receipt.Create)
		receipts.GET("", h.Receipt.List)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.GET("/:id/share-link", h.Receipt.ShareLink)
		receipts.POST("/:id/print", h.Printer.PrintReceipt)
	}

	printer := admin.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerPublicRoutes(public *gin.RouterGroup, h *Handlers) {
	public.GET("/receipt/:projectCode/:receiptId", h.Public.GetReceipt)
}

// filesOnly hides directories so the upload tree cannot be listed
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
