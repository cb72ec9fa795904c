package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims are the bearer token claims
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer; ttl is the token lifetime
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the member
func (ti *TokenIssuer) Issue(member *models.Member) (string, error) {
	now := ti.now()
	claims := Claims{
		Role: member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(member.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Verify parses the token and returns the member id it was issued for
func (ti *TokenIssuer) Verify(tokenString string) (uint64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now))
	if err != nil || !token.Valid {
		return 0, types.NewUnauthorizedError("Invalid or expired token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewUnauthorizedError("Invalid token subject")
	}
	return id, nil
}

// LoginInput is the login request body
type LoginInput struct {
	NIM      string `json:"nim" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	User  *models.Member `json:"user"`
	Token string         `json:"token"`
}

// Login checks the NIM/password pair and issues a token
func Login(db *gorm.DB, issuer *TokenIssuer, in LoginInput) (*LoginResult, error) {
	var member models.Member
	err := tagged(db, "login").Where("nim = ?", in.NIM).First(&member).Error
	if err != nil {
		if database.IsNotFound(err) {
			// keep timing comparable to a wrong password
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return nil, types.NewUnauthorizedError("Invalid NIM or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, types.NewUnauthorizedError("Invalid NIM or password")
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := issuer.Issue(&member)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{User: &member, Token: token}, nil
}

// Authenticate verifies a bearer token and reloads the member so role
// changes take effect without re-login
func Authenticate(db *gorm.DB, issuer *TokenIssuer, tokenString string) (*models.Member, error) {
	id, err := issuer.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	var member models.Member
	if err := db.First(&member, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NewUnauthorizedError("Member not found")
		}
		return nil, err
	}
	return &member, nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("orgportal-dummy"), bcrypt.DefaultCost)
