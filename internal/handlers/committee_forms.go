package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/utils"
	"gorm.io/gorm"
)

// CommitteeFormHandler handles recruitment form and registration routes
type CommitteeFormHandler struct {
	DB *gorm.DB
}

// ListForms handles GET /api/committee-forms
// @Summary List recruitment forms
// @Tags CommitteeForms
// @Produce json
// @Success 200 {object} utils.Envelope{data=[]models.RecruitmentForm}
// @Router /committee-forms [get]
func (h *CommitteeFormHandler) ListForms(c *fiber.Ctx) error {
	forms, err := services.ListForms(h.DB.WithContext(c.UserContext()))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, forms, fiber.StatusOK)
}

// GetForm handles GET /api/committee-forms/:id
// @Summary Get a recruitment form with divisions and questions
// @Tags CommitteeForms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} utils.Envelope{data=models.RecruitmentForm}
// @Failure 404 {object} utils.Envelope
// @Router /committee-forms/{id} [get]
func (h *CommitteeFormHandler) GetForm(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Form")
	if err != nil {
		return err
	}
	form, err := services.GetForm(h.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, form, fiber.StatusOK)
}

// CreateForm handles POST /api/committee-forms
// @Summary Create a recruitment form
// @Tags CommitteeForms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FormInput true "Form with divisions and questions"
// @Success 201 {object} utils.Envelope{data=models.RecruitmentForm}
// @Failure 403 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /committee-forms [post]
func (h *CommitteeFormHandler) CreateForm(c *fiber.Ctx) error {
	var body services.FormInput
	if err := bind(c, &body); err != nil {
		return err
	}
	form, err := services.CreateForm(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Form created", form, fiber.StatusCreated)
}

// UpdateForm handles PUT /api/committee-forms/:id
// @Summary Update a recruitment form
// @Description Divisions and questions are replaced when given, only while nobody has registered.
// @Description open_at or close_at sent as null clears that bound.
// @Tags CommitteeForms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Param body body services.FormInput true "Fields to change"
// @Success 200 {object} utils.Envelope{data=models.RecruitmentForm}
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /committee-forms/{id} [put]
func (h *CommitteeFormHandler) UpdateForm(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Form")
	if err != nil {
		return err
	}
	var body services.FormInput
	if err := bind(c, &body); err != nil {
		return err
	}
	form, err := services.UpdateForm(h.DB.WithContext(c.UserContext()), actorOf(c), id, body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Form updated", form, fiber.StatusOK)
}

// DeleteForm handles DELETE /api/committee-forms/:id
// @Summary Delete a recruitment form and everything under it
// @Tags CommitteeForms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /committee-forms/{id} [delete]
func (h *CommitteeFormHandler) DeleteForm(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Form")
	if err != nil {
		return err
	}
	if err := services.DeleteForm(h.DB.WithContext(c.UserContext()), actorOf(c), id); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Form deleted", nil, fiber.StatusOK)
}

// Register handles POST /api/committee-forms/register
// @Summary Register to a division of a form
// @Tags CommitteeForms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterInput true "Registration with answers"
// @Success 201 {object} utils.Envelope{data=models.Registration}
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /committee-forms/register [post]
func (h *CommitteeFormHandler) Register(c *fiber.Ctx) error {
	var body services.RegisterInput
	if err := bind(c, &body); err != nil {
		return err
	}
	registration, err := services.RegisterForm(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Registration submitted", registration, fiber.StatusCreated)
}

// MyRegistrations handles GET /api/committee-forms/my-registrations
// @Summary Own registrations
// @Tags CommitteeForms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=[]models.Registration}
// @Router /committee-forms/my-registrations [get]
func (h *CommitteeFormHandler) MyRegistrations(c *fiber.Ctx) error {
	registrations, err := services.MyRegistrations(h.DB.WithContext(c.UserContext()), actorOf(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, registrations, fiber.StatusOK)
}

// ListRegistrations handles GET /api/committee-forms/:formId/registrations
// @Summary List a form's registrations
// @Tags CommitteeForms
// @Produce json
// @Security BearerAuth
// @Param formId path int true "Form ID"
// @Success 200 {object} utils.Envelope{data=[]models.Registration}
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /committee-forms/{formId}/registrations [get]
func (h *CommitteeFormHandler) ListRegistrations(c *fiber.Ctx) error {
	id, err := paramID(c, "formId", "Form")
	if err != nil {
		return err
	}
	registrations, err := services.ListRegistrations(h.DB.WithContext(c.UserContext()), actorOf(c), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, registrations, fiber.StatusOK)
}

// UpdateRegistrationStatus handles PUT and PATCH /api/committee-forms/registrations/:id/status
// @Summary Review a registration
// @Tags CommitteeForms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param body body services.RegistrationStatusInput true "Status"
// @Success 200 {object} utils.Envelope{data=models.Registration}
// @Failure 404 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /committee-forms/registrations/{id}/status [put]
func (h *CommitteeFormHandler) UpdateRegistrationStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Registration")
	if err != nil {
		return err
	}
	var body services.RegistrationStatusInput
	if err := bind(c, &body); err != nil {
		return err
	}
	registration, err := services.UpdateRegistrationStatus(h.DB.WithContext(c.UserContext()), actorOf(c), id, body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Registration updated", registration, fiber.StatusOK)
}

// DeleteRegistration handles DELETE /api/committee-forms/registrations/:id
// @Summary Withdraw or remove a registration
// @Tags CommitteeForms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /committee-forms/registrations/{id} [delete]
func (h *CommitteeFormHandler) DeleteRegistration(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Registration")
	if err != nil {
		return err
	}
	if err := services.DeleteRegistration(h.DB.WithContext(c.UserContext()), actorOf(c), id); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Registration deleted", nil, fiber.StatusOK)
}
