package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/auth"
	"github.com/learnhub/lms-backend/internal/config"
	"github.com/learnhub/lms-backend/internal/handler"
	"github.com/learnhub/lms-backend/internal/middleware"
	"github.com/learnhub/lms-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Class      *handler.ClassHandler
	CalendarWS *handler.CalendarWSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(authorizer auth.Authorizer, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID, auth.RoleHeader}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Class Catalog ─────────────────────────────────────────────────
	// Reads are open; every mutating call passes the catalog-writer gate.
	api := router.Group("/api")
	{
		api.GET("/classes", handlers.Class.ListClasses)
		api.GET("/classes/:id", handlers.Class.GetClass)

		writers := api.Group("/classes", middleware.RequireCatalogWriter(authorizer))
		{
			writers.POST("", handlers.Class.CreateClass)
			writers.PUT("/:id", handlers.Class.UpdateClass)
			writers.DELETE("/:id", handlers.Class.DeleteClass)
		}
	}

	// ─── Calendar Change Stream ────────────────────────────────────────
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/calendar", handlers.CalendarWS.Stream)
	}

	return router
}
