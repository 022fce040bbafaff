package main

import (
	"go.uber.org/zap"

	"github.com/jimmbo89/api-sweetspot/internal/handler"
	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/internal/router"
	"github.com/jimmbo89/api-sweetspot/pkg/config"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
	"github.com/jimmbo89/api-sweetspot/pkg/imagestore"
	"github.com/jimmbo89/api-sweetspot/pkg/jwtutil"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/pkg/mailer"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting api-sweetspot...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver))

	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database schema migrated")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	imagestore.Init(cfg.Upload.Dir)

	handler.Init(cfg, mailer.New(&cfg.Mail))

	e := router.New(log)

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
