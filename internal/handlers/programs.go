package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/utils"
	"gorm.io/gorm"
)

// ProgramHandler handles program catalog routes
type ProgramHandler struct {
	DB *gorm.DB
}

// ListPrograms handles GET /api/programs
// @Summary List programs
// @Tags Programs
// @Produce json
// @Param department query string false "Department filter"
// @Success 200 {object} utils.Envelope{data=[]models.Program}
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	programs, err := services.ListPrograms(h.DB.WithContext(c.UserContext()), c.Query("department"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, programs, fiber.StatusOK)
}

// GetProgram handles GET /api/programs/:id
// @Summary Get a program with its positions
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} utils.Envelope{data=models.Program}
// @Failure 404 {object} utils.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Program")
	if err != nil {
		return err
	}
	program, err := services.GetProgram(h.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, program, fiber.StatusOK)
}

// CreateProgram handles POST /api/programs
// @Summary Create a program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ProgramInput true "Program"
// @Success 201 {object} utils.Envelope{data=models.Program}
// @Failure 403 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var body services.ProgramInput
	if err := bind(c, &body); err != nil {
		return err
	}
	program, err := services.CreateProgram(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Program created", program, fiber.StatusCreated)
}

// UpdateProgram handles PUT /api/programs/:id
// @Summary Update a program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param body body services.ProgramInput true "Fields to change"
// @Success 200 {object} utils.Envelope{data=models.Program}
// @Failure 404 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /programs/{id} [put]
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Program")
	if err != nil {
		return err
	}
	var body services.ProgramInput
	if err := bind(c, &body); err != nil {
		return err
	}
	program, err := services.UpdateProgram(h.DB.WithContext(c.UserContext()), actorOf(c), id, body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Program updated", program, fiber.StatusOK)
}

// DeleteProgram handles DELETE /api/programs/:id
// @Summary Delete a program with its positions and applications
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /programs/{id} [delete]
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Program")
	if err != nil {
		return err
	}
	if err := services.DeleteProgram(h.DB.WithContext(c.UserContext()), actorOf(c), id); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Program deleted", nil, fiber.StatusOK)
}
