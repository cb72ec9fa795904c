package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/localnerve/orgportal/internal/config"
	"github.com/localnerve/orgportal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t)
	dir := filepath.Join(t.TempDir(), "files")
	store, err := storage.NewLocal(dir)
	require.NoError(t, err)

	cfg := &config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:", StorageDriver: "local", StorageDir: dir}

	result := HealthCheck(context.Background(), cfg, db, store)
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "ok", result.Storage)
	assert.Equal(t, "sqlite-pure", result.Details["database_type"])
	assert.Empty(t, result.ErrorMessage)

	require.NoError(t, os.RemoveAll(dir))
	result = HealthCheck(context.Background(), cfg, db, store)
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "unreachable", result.Storage)
	assert.Contains(t, result.ErrorMessage, "storage")
}

func TestHealthCheckUnreachableEndpoint(t *testing.T) {
	db := newTestDB(t)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{DBType: "sqlite-pure", StorageDriver: "s3", S3Endpoint: "http://127.0.0.1:1"}
	result := HealthCheck(context.Background(), cfg, db, store)
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Storage)
	assert.NotEmpty(t, result.Details["storage_endpoint_error"])
}
