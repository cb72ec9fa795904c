package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
)

// Locals keys set by the auth middleware
const (
	ActorKey  = "actor"
	MemberKey = "member"
)

// Auth validates the bearer token, reloads the member and stores both the
// member and its Actor in the request locals
func Auth(db *gorm.DB, issuer *services.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return types.NewUnauthorizedError("Unauthenticated.")
		}

		member, err := services.Authenticate(db.WithContext(c.UserContext()), issuer, token)
		if err != nil {
			return err
		}

		c.Locals(MemberKey, member)
		c.Locals(ActorKey, services.Actor{ID: member.ID, Role: member.Role})
		return c.Next()
	}
}

// RequireOfficer rejects actors without the officer role. It must follow Auth.
func RequireOfficer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(ActorKey).(services.Actor)
		if !ok {
			return types.NewUnauthorizedError("Unauthenticated.")
		}
		if !actor.IsOfficer() {
			return types.NewForbiddenError("This action is restricted to officers.")
		}
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
