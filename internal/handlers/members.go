package handlers

import (
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/storage"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/localnerve/orgportal/internal/utils"
	"gorm.io/gorm"
)

// MemberHandler handles the member directory and profile routes
type MemberHandler struct {
	DB    *gorm.DB
	Store storage.Store
}

// ListMembers handles GET /api/members
// @Summary List members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param role query string false "member, alumnus or officer"
// @Success 200 {object} utils.Envelope{data=[]models.Member}
// @Failure 403 {object} utils.Envelope
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	members, err := services.ListMembers(h.DB.WithContext(c.UserContext()), actorOf(c), c.Query("role"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, members, fiber.StatusOK)
}

// GetMember handles GET /api/members/:id
// @Summary Get a member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} utils.Envelope{data=models.Member}
// @Failure 404 {object} utils.Envelope
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Member")
	if err != nil {
		return err
	}
	member, err := services.GetMember(h.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, member, fiber.StatusOK)
}

// CreateMember handles POST /api/members
// @Summary Enroll a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMemberInput true "Member"
// @Success 201 {object} utils.Envelope{data=models.Member}
// @Failure 403 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /members [post]
func (h *MemberHandler) CreateMember(c *fiber.Ctx) error {
	var body services.CreateMemberInput
	if err := bind(c, &body); err != nil {
		return err
	}
	member, err := services.CreateMember(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Member created", member, fiber.StatusCreated)
}

// UpdateProfile handles PUT /api/members/me
// @Summary Update own profile
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} utils.Envelope{data=models.Member}
// @Failure 403 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /members/me [put]
func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	var body services.UpdateProfileInput
	if err := bind(c, &body); err != nil {
		return err
	}
	member, err := services.UpdateProfile(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Profile updated", member, fiber.StatusOK)
}

// UploadAvatar handles POST /api/members/me/avatar
// @Summary Upload own avatar
// @Tags Members
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image file"
// @Success 200 {object} utils.Envelope{data=models.Member}
// @Failure 422 {object} utils.Envelope
// @Router /members/me/avatar [post]
func (h *MemberHandler) UploadAvatar(c *fiber.Ctx) error {
	header, err := c.FormFile("avatar")
	if err != nil {
		return types.NewFieldError("avatar", "The avatar field is required.")
	}
	if header.Size > storage.MaxUploadSize {
		return types.NewFieldError("avatar", "The avatar may not be greater than 8 MB.")
	}

	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		return err
	}
	if len(content) > storage.MaxUploadSize {
		return types.NewFieldError("avatar", "The avatar may not be greater than 8 MB.")
	}
	if !strings.HasPrefix(mimetype.Detect(content).String(), "image/") {
		return types.NewFieldError("avatar", "The avatar must be an image.")
	}

	name, err := h.Store.Save(c.UserContext(), storage.CategoryAvatars, content)
	if err != nil {
		return err
	}
	member, err := services.SetAvatar(h.DB.WithContext(c.UserContext()), actorOf(c), storage.CategoryAvatars+"/"+name)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Avatar updated", member, fiber.StatusOK)
}
