package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskboard-simple/config"
	"github.com/taskboard-simple/database"
	"github.com/taskboard-simple/logging"
	"github.com/taskboard-simple/routes"
	"github.com/taskboard-simple/utils"
)

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel, cfg.LogFile)
	log := logging.Logger

	gin.SetMode(cfg.GinMode)

	if cfg.JWTSecret == "" {
		if cfg.GinMode != gin.DebugMode {
			log.Fatal("JWT_SECRET must be set outside debug mode")
		}
		secret, err := utils.GenerateSecret(48)
		if err != nil {
			log.Fatalf("Failed to generate development secret: %v", err)
		}
		cfg.JWTSecret = secret
		log.Warn("JWT_SECRET not set, using a random development secret; sessions end on restart")
	}

	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	router := routes.SetupRouter(cfg, database.DB)

	log.WithField("port", cfg.Port).Info("taskboard starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
