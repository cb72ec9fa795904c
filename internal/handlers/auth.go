package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/middleware"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles login and session routes
type AuthHandler struct {
	DB     *gorm.DB
	Issuer *services.TokenIssuer
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Exchange a NIM and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} utils.Envelope{data=services.LoginResult}
// @Failure 401 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Failure 429 {object} utils.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body services.LoginInput
	if err := bind(c, &body); err != nil {
		return err
	}

	result, err := services.Login(h.DB.WithContext(c.UserContext()), h.Issuer, body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Login successful", result, fiber.StatusOK)
}

// Me handles GET /api/auth/me
// @Summary Current member
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=models.Member}
// @Failure 401 {object} utils.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	member, _ := c.Locals(middleware.MemberKey).(*models.Member)
	return utils.SuccessResponse(c, member, fiber.StatusOK)
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so the client
// discards its copy.
// @Summary Log out
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.MessageResponse(c, "Logged out", nil, fiber.StatusOK)
}
