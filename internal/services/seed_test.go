package services

import (
	"testing"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedMembers = `[
  {"nim": "00000001", "name": "Chair", "role": "officer", "title": "Chairperson", "password": "pw-officer"},
  {"nim": "10000001", "name": "Someone", "password": "pw-member"}
]`

const seedPrograms = `[
  {
    "name": "Orientation Week",
    "department": "internal",
    "start_date": "2026-08-17",
    "end_date": "2026-08-21",
    "positions": [{"name": "Coordinator", "quota": 2}, {"name": "Staff", "quota": 6}]
  }
]`

func TestSeed(t *testing.T) {
	db := newTestDB(t)

	result, err := Seed(db, []byte(seedMembers), []byte(seedPrograms))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Members)
	assert.Equal(t, 1, result.Programs)

	var member models.Member
	require.NoError(t, db.Where("nim = ?", "10000001").First(&member).Error)
	assert.Equal(t, models.RoleMember, member.Role)

	_, err = Login(db, NewTokenIssuer("secret", 0), LoginInput{NIM: "00000001", Password: "pw-officer"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, count(t, db, &models.Position{}, "status = ?", models.PositionOpen))

	again, err := Seed(db, []byte(seedMembers), []byte(seedPrograms))
	require.NoError(t, err)
	assert.Zero(t, again.Members)
	assert.Zero(t, again.Programs)
	assert.EqualValues(t, 2, count(t, db, &models.Member{}, ""))
	assert.EqualValues(t, 1, count(t, db, &models.Program{}, ""))
}

func TestSeedRejectsBadInput(t *testing.T) {
	db := newTestDB(t)

	_, err := Seed(db, []byte(`{"nim":`), nil)
	assert.Error(t, err)

	_, err = Seed(db, []byte(`[{"nim": "1", "name": "X", "role": "king", "password": "pw"}]`), nil)
	assert.Error(t, err)
	assert.Zero(t, count(t, db, &models.Member{}, ""))
}
