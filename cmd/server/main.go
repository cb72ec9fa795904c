package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/localnerve/orgportal/internal/config"
	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/logging"
	"github.com/localnerve/orgportal/internal/router"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/storage"
	"github.com/sirupsen/logrus"

	_ "github.com/localnerve/orgportal/docs/api" // Swagger docs
)

// @title Orgportal API
// @version 1.0.0
// @description Student organization portal: members, programs, recruitment, committee forms and attendance
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/orgportal
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}

	app := router.New(router.Deps{
		Config:     cfg,
		DB:         db,
		Store:      store,
		Issuer:     services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Prometheus: fiberprometheus.New("orgportal"),
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logrus.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	logrus.Infof("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}

	logrus.Info("Server stopped")
}
