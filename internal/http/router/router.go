package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyagabagae/backend/internal/config"
	"github.com/voyagabagae/backend/internal/http/handlers"
	"github.com/voyagabagae/backend/internal/http/middleware"
	"github.com/voyagabagae/backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	announcementHandler *handlers.AnnouncementHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	catalogHandler *handlers.CatalogHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	api.GET("/hello", healthHandler.Hello)

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/catalog", catalogHandler.GetCatalog)
	api.GET("/catalog/cities", catalogHandler.ListCities)
	api.GET("/announcements", announcementHandler.List)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", authHandler.GetProfile)
		protected.PUT("/profile", authHandler.UpdateProfile)

		protected.GET("/announcements/my", announcementHandler.ListMy)
		protected.POST("/announcements", announcementHandler.Create)
		protected.PUT("/announcements/:id", middleware.UUIDValidator("id"), announcementHandler.Update)
		protected.PATCH("/announcements/:id/status", middleware.UUIDValidator("id"), announcementHandler.UpdateStatus)
		protected.DELETE("/announcements/:id", middleware.UUIDValidator("id"), announcementHandler.Delete)
		protected.POST("/announcements/:id/photos", middleware.UUIDValidator("id"), mediaHandler.UploadPhoto)
	}

	api.GET("/announcements/:id", middleware.UUIDValidator("id"), announcementHandler.Get)

	return r
}
