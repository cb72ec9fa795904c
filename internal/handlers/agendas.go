package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/utils"
	"gorm.io/gorm"
)

// AgendaHandler handles agenda and attendance routes
type AgendaHandler struct {
	DB *gorm.DB
}

// ListAgendas handles GET /api/agendas
// @Summary List agendas
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=[]models.Agenda}
// @Router /agendas [get]
func (h *AgendaHandler) ListAgendas(c *fiber.Ctx) error {
	agendas, err := services.ListAgendas(h.DB.WithContext(c.UserContext()), actorOf(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, agendas, fiber.StatusOK)
}

// GetAgenda handles GET /api/agendas/:id
// @Summary Get an agenda
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agenda ID"
// @Success 200 {object} utils.Envelope{data=models.Agenda}
// @Failure 404 {object} utils.Envelope
// @Router /agendas/{id} [get]
func (h *AgendaHandler) GetAgenda(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Agenda")
	if err != nil {
		return err
	}
	agenda, err := services.GetAgenda(h.DB.WithContext(c.UserContext()), actorOf(c), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, agenda, fiber.StatusOK)
}

// CreateAgenda handles POST /api/agendas
// @Summary Schedule an agenda
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AgendaInput true "Agenda"
// @Success 201 {object} utils.Envelope{data=models.Agenda}
// @Failure 403 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /agendas [post]
func (h *AgendaHandler) CreateAgenda(c *fiber.Ctx) error {
	var body services.AgendaInput
	if err := bind(c, &body); err != nil {
		return err
	}
	agenda, err := services.CreateAgenda(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Agenda created", agenda, fiber.StatusCreated)
}

// RotateToken handles POST /api/agendas/:id/token
// @Summary Issue a new QR token
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agenda ID"
// @Success 200 {object} utils.Envelope{data=models.Agenda}
// @Failure 404 {object} utils.Envelope
// @Router /agendas/{id}/token [post]
func (h *AgendaHandler) RotateToken(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Agenda")
	if err != nil {
		return err
	}
	agenda, err := services.RotateAgendaToken(h.DB.WithContext(c.UserContext()), actorOf(c), id)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Token rotated", agenda, fiber.StatusOK)
}

// DeleteAgenda handles DELETE /api/agendas/:id
// @Summary Delete an agenda and its attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agenda ID"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /agendas/{id} [delete]
func (h *AgendaHandler) DeleteAgenda(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Agenda")
	if err != nil {
		return err
	}
	if err := services.DeleteAgenda(h.DB.WithContext(c.UserContext()), actorOf(c), id); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Agenda deleted", nil, fiber.StatusOK)
}

// ListAttendances handles GET /api/agendas/:id/attendances
// @Summary List an agenda's attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agenda ID"
// @Success 200 {object} utils.Envelope{data=[]models.Attendance}
// @Failure 404 {object} utils.Envelope
// @Router /agendas/{id}/attendances [get]
func (h *AgendaHandler) ListAttendances(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Agenda")
	if err != nil {
		return err
	}
	attendances, err := services.ListAttendances(h.DB.WithContext(c.UserContext()), actorOf(c), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, attendances, fiber.StatusOK)
}

// Scan handles POST /api/attendance/scan
// @Summary Record attendance from a QR token
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ScanInput true "Scanned token"
// @Success 201 {object} utils.Envelope{data=models.Attendance}
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Router /attendance/scan [post]
func (h *AgendaHandler) Scan(c *fiber.Ctx) error {
	var body services.ScanInput
	if err := bind(c, &body); err != nil {
		return err
	}
	attendance, err := services.Scan(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Attendance recorded", attendance, fiber.StatusCreated)
}

// MyAttendances handles GET /api/attendance/me
// @Summary Own attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=[]models.Attendance}
// @Router /attendance/me [get]
func (h *AgendaHandler) MyAttendances(c *fiber.Ctx) error {
	attendances, err := services.MyAttendances(h.DB.WithContext(c.UserContext()), actorOf(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, attendances, fiber.StatusOK)
}
