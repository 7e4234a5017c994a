package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/middleware"
	"github.com/taskboard-simple/services"
	"gorm.io/gorm"
)

// Options configures the session handling of the HTML routes
type Options struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
	// HashCost overrides the bcrypt cost when non-zero
	HashCost int
}

// RegisterRoutes registers all v1 routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, opts Options) {
	authService := services.NewAuthService(db, opts.JWTSecret, opts.TokenTTL)
	if opts.HashCost != 0 {
		authService.WithHashCost(opts.HashCost)
	}
	userService := services.NewUserService(db)

	authController := NewAuthController(authService, userService, opts.TokenTTL, opts.CookieSecure)
	projectController := NewProjectController(services.NewProjectService(db))
	taskController := NewTaskController(services.NewTaskService(db), userService)

	// Public routes
	router.GET("/", authController.Home)
	router.GET("/healthz", HealthCheck(db))
	authController.RegisterRoutes(router)

	// Everything else requires a session
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(authService, userService))
	projectController.RegisterRoutes(protected)
	taskController.RegisterRoutes(protected)
	authController.RegisterProtectedRoutes(protected)
}
