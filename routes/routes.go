package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/taskboard-simple/api/v1"
	"github.com/taskboard-simple/config"
	"github.com/taskboard-simple/middleware"
	"github.com/taskboard-simple/templates"
	"gorm.io/gorm"
)

// SetupRouter builds the engine with the shared middleware, templates and routes
func SetupRouter(cfg config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	// CORS is only opened for explicitly configured origins
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
		}))
	}

	router.SetHTMLTemplate(templates.Load())

	v1.RegisterRoutes(router, db, v1.Options{
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		CookieSecure: cfg.CookieSecure,
	})

	return router
}
