package services

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory database private to the test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(puresqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

var nimSeq int

func createMember(t *testing.T, db *gorm.DB, role models.Role) (models.Member, Actor) {
	t.Helper()
	nimSeq++
	member := models.Member{
		NIM:          fmt.Sprintf("2026%04d", nimSeq),
		Name:         fmt.Sprintf("Member %d", nimSeq),
		Role:         role,
		PasswordHash: "unused",
	}
	require.NoError(t, db.Create(&member).Error)
	return member, Actor{ID: member.ID, Role: member.Role}
}

func createProgram(t *testing.T, db *gorm.DB, name string) models.Program {
	t.Helper()
	program := models.Program{
		Name:       name,
		Department: "internal",
		StartDate:  datatypes.Date(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:    datatypes.Date(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, db.Create(&program).Error)
	return program
}

func createPosition(t *testing.T, db *gorm.DB, programID uint64, quota int, status models.PositionStatus) models.Position {
	t.Helper()
	position := models.Position{ProgramID: programID, Name: "Staff", Quota: quota, Status: status}
	require.NoError(t, db.Create(&position).Error)
	return position
}

// assertCustomError checks err is a CustomError with the given status and,
// when given, that fields carry messages for each key
func assertCustomError(t *testing.T, err error, code int, fields ...string) *types.CustomError {
	t.Helper()
	require.Error(t, err)
	ce, ok := types.AsCustomError(err)
	require.Truef(t, ok, "expected CustomError, got %T: %v", err, err)
	assert.Equal(t, code, ce.Code, ce.Message)
	for _, f := range fields {
		assert.NotEmptyf(t, ce.Fields[f], "expected an error on %q, got %v", f, ce.Fields)
	}
	return ce
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	assertCustomError(t, err, http.StatusForbidden)
}

func count(t *testing.T, db *gorm.DB, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	query := db.Model(model)
	if where != "" {
		query = query.Where(where, args...)
	}
	require.NoError(t, query.Count(&n).Error)
	return n
}

func ptr[T any](v T) *T {
	return &v
}
