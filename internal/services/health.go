package services

import (
	"context"
	"fmt"

	"github.com/localnerve/orgportal/internal/config"
	"github.com/localnerve/orgportal/internal/storage"
	"github.com/localnerve/orgportal/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Storage      string            `json:"storage"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(component, detail string, err error) {
	r.Status = "unhealthy"
	r.Details[detail] = err.Error()
	msg := fmt.Sprintf("%s check failed: %v", component, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
	logrus.WithError(err).Warnf("Health check failed - %s", component)
}

// HealthCheck reports database and file storage reachability
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, store storage.Store) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database", "database_error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.fail("database", "database_ping_error", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	// a dead endpoint fails fast here instead of waiting out the SDK retries
	if cfg.StorageDriver == "s3" && cfg.S3Endpoint != "" {
		if err := utils.PingStorageEndpoint(cfg.S3Endpoint); err != nil {
			result.Storage = "unreachable"
			result.fail("storage", "storage_endpoint_error", err)
			return result
		}
	}
	if err := store.Ping(ctx); err != nil {
		result.Storage = "unreachable"
		result.fail("storage", "storage_error", err)
	} else {
		result.Storage = "ok"
		result.Details["storage_driver"] = cfg.StorageDriver
	}

	if result.Status == "healthy" {
		logrus.Debug("Health check passed - all systems operational")
	}
	return result
}
