package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/api/handlers"
	apimiddleware "github.com/jpart-gallery/gallery-api/internal/api/middleware"
	"github.com/jpart-gallery/gallery-api/internal/config"
	"github.com/jpart-gallery/gallery-api/internal/metrics"
	"github.com/jpart-gallery/gallery-api/internal/middleware"
	"github.com/jpart-gallery/gallery-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the services the HTTP surface is built from
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Version   string
	Recorder  metrics.Recorder
	Content   *services.ContentService
	Catalog   *services.CatalogService
	Checkout  *services.CheckoutService
	Instagram *services.InstagramRelay
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	router.Use(apimiddleware.CORS(cfg.CORSOrigins))

	// Liveness
	healthHandler := handlers.NewHealthHandler(deps.DB)
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.HealthCheck)

	api := router.Group("/api")
	api.GET("/", healthHandler.APIRoot)

	metricsHandler := handlers.NewMetricsHandler(deps.Version, cfg)
	api.GET("/metrics", metricsHandler.GetMetrics)

	statusHandler := handlers.NewStatusHandler(deps.Catalog)
	api.POST("/status", statusHandler.Create)
	api.GET("/status", statusHandler.List)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		authHandler := handlers.NewAuthHandler(deps.DB, cfg)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
		auth.POST("/register", authHandler.Register)
		auth.POST("/bootstrap", authHandler.Bootstrap)
	}

	// AI content proxy
	ai := api.Group("/ai")
	{
		aiHandler := handlers.NewAIHandler(deps.Content)
		ai.POST("/caption", aiHandler.Caption)
		ai.POST("/stage", aiHandler.Stage)
	}

	adminOnly := []gin.HandlerFunc{middleware.SessionAuth(cfg), middleware.AdminRequired()}

	// Catalog: reads are public, writes need an admin session
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	api.GET("/categories", catalogHandler.ListCategories)
	api.POST("/categories", append(adminOnly, catalogHandler.CreateCategory)...)
	api.DELETE("/categories/:id", append(adminOnly, catalogHandler.DeleteCategory)...)

	api.GET("/artworks", catalogHandler.ListArtworks)
	api.GET("/artworks/:id", catalogHandler.GetArtwork)
	api.POST("/artworks", append(adminOnly, catalogHandler.CreateArtwork)...)
	api.PUT("/artworks/:id", append(adminOnly, catalogHandler.UpdateArtwork)...)
	api.DELETE("/artworks/:id", append(adminOnly, catalogHandler.DeleteArtwork)...)

	// Checkout
	checkout := api.Group("/checkout")
	{
		checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)
		checkout.POST("/create-session", checkoutHandler.CreateSession)
		checkout.POST("/webhook", checkoutHandler.Webhook)
	}

	// Instagram relay (admin only)
	instagram := api.Group("/instagram")
	instagram.Use(adminOnly...)
	{
		instagramHandler := handlers.NewInstagramHandler(deps.Instagram)
		instagram.POST("/queue", instagramHandler.Queue)
		instagram.GET("/diag", instagramHandler.Diag)
	}

	return router
}
