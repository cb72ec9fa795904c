package main

import (
	"github.com/localnerve/orgportal/data"
	"github.com/localnerve/orgportal/internal/config"
	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/logging"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
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

	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	result, err := services.Seed(db, data.SeedMembers, data.SeedPrograms)
	if err != nil {
		logrus.Fatalf("Failed to seed database: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"members":  result.Members,
		"programs": result.Programs,
	}).Info("Seed complete")
}
