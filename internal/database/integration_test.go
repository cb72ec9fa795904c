package database_test

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/localnerve/orgportal/internal/config"
	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/devdb"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAgainstContainer runs the schema and the unique-index conflict paths
// against a real server. It needs docker and DB_IMAGE, e.g. mariadb:11.
func TestAgainstContainer(t *testing.T) {
	if testing.Short() || os.Getenv("DB_IMAGE") == "" {
		t.Skip("set DB_IMAGE to run against a database container")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	opts := devdb.OptionsFromEnv()
	opts.HostPort = ""
	c, err := devdb.Start(ctx, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	env := c.Env()
	cfg := &config.Config{
		DBType:            env["DB_TYPE"],
		DBHost:            env["DB_HOST"],
		DBPort:            env["DB_PORT"],
		DBDatabase:        env["DB_DATABASE"],
		DBUser:            env["DB_USER"],
		DBPassword:        env["DB_PASSWORD"],
		DBConnectionLimit: 5,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	officer := models.Member{NIM: "00000001", Name: "Chair", Role: models.RoleOfficer, PasswordHash: "x"}
	member := models.Member{NIM: "13520001", Name: "Member", Role: models.RoleMember, PasswordHash: "x"}
	require.NoError(t, db.Create(&officer).Error)
	require.NoError(t, db.Create(&member).Error)

	twin := models.Member{NIM: "13520001", Name: "Twin", PasswordHash: "x"}
	assert.True(t, database.IsUniqueViolation(db.Create(&twin).Error))

	officerActor := services.Actor{ID: officer.ID, Role: officer.Role}
	memberActor := services.Actor{ID: member.ID, Role: member.Role}

	form, err := services.CreateForm(db, officerActor, services.FormInput{
		Name:      ptr("Committee"),
		Divisions: []services.DivisionInput{{Name: "Event"}},
		Questions: []services.QuestionInput{{Question: "Why?", Type: "text", Required: true}},
	})
	require.NoError(t, err)

	in := services.RegisterInput{
		FormID:     types.FlexUint64(form.ID),
		DivisionID: types.FlexUint64(form.Divisions[0].ID),
		Answers: []services.AnswerInput{
			{QuestionID: types.FlexUint64(form.Questions[0].ID), Answer: types.FlexList[string]{"Because"}},
		},
	}
	_, err = services.RegisterForm(db, memberActor, in)
	require.NoError(t, err)
	_, err = services.RegisterForm(db, memberActor, in)
	ce, ok := types.AsCustomError(err)
	require.True(t, ok, err)
	assert.Equal(t, http.StatusConflict, ce.Code)

	require.NoError(t, services.DeleteForm(db, officerActor, form.ID))
	var answers int64
	require.NoError(t, db.Model(&models.Answer{}).Count(&answers).Error)
	assert.Zero(t, answers)
}

func ptr[T any](v T) *T {
	return &v
}
