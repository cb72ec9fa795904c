package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/localnerve/orgportal/internal/utils"
	"gorm.io/gorm"
)

// RecruitmentHandler handles position and application routes
type RecruitmentHandler struct {
	DB *gorm.DB
}

// ListPositions handles GET /api/recruitment/positions
// @Summary List positions
// @Description Paged only when page is given
// @Tags Recruitment
// @Produce json
// @Param program_id query int false "Program filter"
// @Param status query string false "open or closed"
// @Param page query int false "Page number, from 1"
// @Param per_page query int false "Page size, default 15, max 100"
// @Success 200 {object} utils.Envelope{data=[]models.Position,meta=services.Pagination}
// @Failure 422 {object} utils.Envelope
// @Router /recruitment/positions [get]
func (h *RecruitmentHandler) ListPositions(c *fiber.Ctx) error {
	var filter services.PositionFilter
	fields := map[string][]string{}
	for key, dst := range map[string]*int{"page": &filter.Page, "per_page": &filter.PerPage} {
		if raw := c.Query(key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				fields[key] = []string{"The " + key + " must be a positive integer."}
				continue
			}
			*dst = n
		}
	}
	if raw := c.Query("program_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields["program_id"] = []string{"The program_id must be an integer."}
		}
		filter.ProgramID = id
	}
	if len(fields) > 0 {
		return types.NewValidationError("The given data was invalid.", fields)
	}
	filter.Status = c.Query("status")

	positions, page, err := services.ListPositions(h.DB.WithContext(c.UserContext()), filter)
	if err != nil {
		return err
	}
	if page != nil {
		return utils.PagedResponse(c, positions, page)
	}
	return utils.SuccessResponse(c, positions, fiber.StatusOK)
}

// GetPosition handles GET /api/recruitment/positions/:id
// @Summary Get a position
// @Tags Recruitment
// @Produce json
// @Param id path int true "Position ID"
// @Success 200 {object} utils.Envelope{data=models.Position}
// @Failure 404 {object} utils.Envelope
// @Router /recruitment/positions/{id} [get]
func (h *RecruitmentHandler) GetPosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Position")
	if err != nil {
		return err
	}
	position, err := services.GetPosition(h.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, position, fiber.StatusOK)
}

// CreatePosition handles POST /api/recruitment/positions
// @Summary Open a position
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PositionInput true "Position"
// @Success 201 {object} utils.Envelope{data=models.Position}
// @Failure 403 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /recruitment/positions [post]
func (h *RecruitmentHandler) CreatePosition(c *fiber.Ctx) error {
	var body services.PositionInput
	if err := bind(c, &body); err != nil {
		return err
	}
	position, err := services.CreatePosition(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Position created", position, fiber.StatusCreated)
}

// UpdatePosition handles PUT and PATCH /api/recruitment/positions/:id
// @Summary Update a position
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Position ID"
// @Param body body services.PositionInput true "Fields to change"
// @Success 200 {object} utils.Envelope{data=models.Position}
// @Failure 404 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /recruitment/positions/{id} [put]
func (h *RecruitmentHandler) UpdatePosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Position")
	if err != nil {
		return err
	}
	var body services.PositionInput
	if err := bind(c, &body); err != nil {
		return err
	}
	position, err := services.UpdatePosition(h.DB.WithContext(c.UserContext()), actorOf(c), id, body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Position updated", position, fiber.StatusOK)
}

// DeletePosition handles DELETE /api/recruitment/positions/:id
// @Summary Delete a position and its applications
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Position ID"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /recruitment/positions/{id} [delete]
func (h *RecruitmentHandler) DeletePosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Position")
	if err != nil {
		return err
	}
	if err := services.DeletePosition(h.DB.WithContext(c.UserContext()), actorOf(c), id); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Position deleted", nil, fiber.StatusOK)
}

// Apply handles POST /api/recruitment/apply
// @Summary Apply to a position
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ApplyInput true "Application"
// @Success 201 {object} utils.Envelope{data=models.Application}
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /recruitment/apply [post]
func (h *RecruitmentHandler) Apply(c *fiber.Ctx) error {
	var body services.ApplyInput
	if err := bind(c, &body); err != nil {
		return err
	}
	application, err := services.Apply(h.DB.WithContext(c.UserContext()), actorOf(c), body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Application submitted", application, fiber.StatusCreated)
}

// ListApplicants handles GET /api/recruitment/positions/:id/applicants
// @Summary List a position's applicants
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Position ID"
// @Success 200 {object} utils.Envelope{data=[]models.Application}
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /recruitment/positions/{id}/applicants [get]
func (h *RecruitmentHandler) ListApplicants(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Position")
	if err != nil {
		return err
	}
	applications, err := services.ListApplicantsByPosition(h.DB.WithContext(c.UserContext()), actorOf(c), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, applications, fiber.StatusOK)
}

// SelectApplicant handles POST and PATCH /api/recruitment/applications/:id/select
// @Summary Accept or reject a pending application
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.SelectInput true "Decision"
// @Success 200 {object} utils.Envelope{data=models.Application}
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Failure 422 {object} utils.Envelope
// @Router /recruitment/applications/{id}/select [post]
func (h *RecruitmentHandler) SelectApplicant(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Application")
	if err != nil {
		return err
	}
	var body services.SelectInput
	if err := bind(c, &body); err != nil {
		return err
	}
	application, err := services.SelectApplicant(h.DB.WithContext(c.UserContext()), actorOf(c), id, body)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, "Application "+string(application.Status), application, fiber.StatusOK)
}

// MyApplications handles GET /api/recruitment/my-applications
// @Summary Own applications
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=[]models.Application}
// @Router /recruitment/my-applications [get]
func (h *RecruitmentHandler) MyApplications(c *fiber.Ctx) error {
	applications, err := services.MyApplications(h.DB.WithContext(c.UserContext()), actorOf(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, applications, fiber.StatusOK)
}

// MyCommittee handles GET /api/recruitment/my-committee
// @Summary Positions the member was accepted to
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope{data=[]models.Application}
// @Router /recruitment/my-committee [get]
func (h *RecruitmentHandler) MyCommittee(c *fiber.Ctx) error {
	applications, err := services.MyCommittee(h.DB.WithContext(c.UserContext()), actorOf(c))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, applications, fiber.StatusOK)
}
