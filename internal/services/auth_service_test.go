package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func createLoginMember(t *testing.T, db *gorm.DB, nim, password string, role models.Role) models.Member {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	member := models.Member{NIM: nim, Name: "Login " + nim, Role: role, PasswordHash: string(hash)}
	require.NoError(t, db.Create(&member).Error)
	return member
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	member := &models.Member{ID: 42, Role: models.RoleOfficer}

	token, err := issuer.Issue(member)
	require.NoError(t, err)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	other := NewTokenIssuer("another-secret", time.Hour)
	_, err = other.Verify(token)
	assertCustomError(t, err, http.StatusUnauthorized)

	_, err = issuer.Verify("not.a.token")
	assertCustomError(t, err, http.StatusUnauthorized)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assertCustomError(t, err, http.StatusUnauthorized)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	member := createLoginMember(t, db, "13520001", "correct horse", models.RoleMember)

	result, err := Login(db, issuer, LoginInput{NIM: "13520001", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, member.ID, result.User.ID)

	id, err := issuer.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, id)

	_, err = Login(db, issuer, LoginInput{NIM: "13520001", Password: "wrong"})
	wrong := assertCustomError(t, err, http.StatusUnauthorized)

	_, err = Login(db, issuer, LoginInput{NIM: "99999999", Password: "correct horse"})
	unknown := assertCustomError(t, err, http.StatusUnauthorized)

	// the response does not reveal which half was wrong
	assert.Equal(t, wrong.Message, unknown.Message)
}

func TestAuthenticateReloadsMember(t *testing.T) {
	db := newTestDB(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	member := createLoginMember(t, db, "13520002", "password", models.RoleMember)

	token, err := issuer.Issue(&member)
	require.NoError(t, err)

	require.NoError(t, db.Model(&member).Update("role", models.RoleOfficer).Error)

	current, err := Authenticate(db, issuer, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOfficer, current.Role)

	require.NoError(t, db.Delete(&models.Member{}, member.ID).Error)
	_, err = Authenticate(db, issuer, token)
	assertCustomError(t, err, http.StatusUnauthorized)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret-password")))
}
