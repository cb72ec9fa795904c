package services

import (
	"strings"

	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/metrics"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// PositionFilter narrows and optionally pages ListPositions. Page 0 means unpaged.
type PositionFilter struct {
	ProgramID uint64
	Status    string
	Page      int
	PerPage   int
}

// Pagination describes one page of a paged listing
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// PositionInput is the body for creating or updating a position. Pointer
// fields are optional on update.
type PositionInput struct {
	ProgramID    *types.FlexUint64 `json:"program_id"`
	Name         *string           `json:"name" validate:"omitempty,min=1,max=255"`
	Quota        *int              `json:"quota" validate:"omitempty,min=0"`
	Requirements *string           `json:"requirements"`
	Status       *string           `json:"status" validate:"omitempty,oneof=open closed"`
}

// ApplyInput is the body of an application
type ApplyInput struct {
	PositionID types.FlexUint64 `json:"position_id" validate:"required"`
	Motivation string           `json:"motivation" validate:"required,max=5000"`
}

// SelectInput is a reviewer decision
type SelectInput struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// ListPositions returns positions with their program
func ListPositions(db *gorm.DB, filter PositionFilter) ([]models.Position, *Pagination, error) {
	query := tagged(db, "listPositions").Model(&models.Position{})
	if filter.ProgramID != 0 {
		query = query.Where("program_id = ?", filter.ProgramID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var page *Pagination
	if filter.Page > 0 {
		perPage := filter.PerPage
		if perPage <= 0 {
			perPage = defaultPerPage
		}
		perPage = min(perPage, maxPerPage)
		page = &Pagination{Page: filter.Page, PerPage: perPage}
		if err := query.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
			return nil, nil, err
		}
		query = query.Offset((filter.Page - 1) * perPage).Limit(perPage)
	}

	positions := make([]models.Position, 0)
	if err := query.Preload("Program").Order("id ASC").Find(&positions).Error; err != nil {
		return nil, nil, err
	}
	return positions, page, nil
}

// GetPosition returns one position with its program
func GetPosition(db *gorm.DB, id uint64) (*models.Position, error) {
	var position models.Position
	if err := findOr404(tagged(db, "getPosition").Preload("Program"), &position, id, "Position"); err != nil {
		return nil, err
	}
	return &position, nil
}

// CreatePosition opens a position under an existing program. Officers only.
func CreatePosition(db *gorm.DB, actor Actor, in PositionInput) (*models.Position, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	if in.ProgramID == nil || in.ProgramID.Uint64() == 0 {
		fields["program_id"] = []string{"The program_id field is required."}
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		fields["name"] = []string{"The name field is required."}
	}
	if in.Quota != nil && *in.Quota < 0 {
		fields["quota"] = []string{"The quota must be at least 0."}
	}
	if len(fields) > 0 {
		return nil, types.NewValidationError("The given data was invalid.", fields)
	}
	if err := programExists(db, in.ProgramID.Uint64()); err != nil {
		return nil, err
	}

	position := models.Position{
		ProgramID: in.ProgramID.Uint64(),
		Name:      strings.TrimSpace(*in.Name),
		Status:    models.PositionOpen,
	}
	if in.Quota != nil {
		position.Quota = *in.Quota
	}
	if in.Requirements != nil {
		position.Requirements = *in.Requirements
	}
	if in.Status != nil {
		position.Status = models.PositionStatus(*in.Status)
	}
	if err := db.Create(&position).Error; err != nil {
		return nil, err
	}
	return GetPosition(db, position.ID)
}

// UpdatePosition applies a partial update. Officers only.
func UpdatePosition(db *gorm.DB, actor Actor, id uint64, in PositionInput) (*models.Position, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	var position models.Position
	if err := findOr404(db, &position, id, "Position"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.ProgramID != nil && in.ProgramID.Uint64() != position.ProgramID {
		if err := programExists(db, in.ProgramID.Uint64()); err != nil {
			return nil, err
		}
		updates["program_id"] = in.ProgramID.Uint64()
	}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Quota != nil {
		if *in.Quota < 0 {
			return nil, types.NewFieldError("quota", "The quota must be at least 0.")
		}
		updates["quota"] = *in.Quota
	}
	if in.Requirements != nil {
		updates["requirements"] = *in.Requirements
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if len(updates) > 0 {
		if err := db.Model(&position).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetPosition(db, id)
}

// DeletePosition removes a position and its applications. Officers only.
func DeletePosition(db *gorm.DB, actor Actor, id uint64) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var position models.Position
		if err := findOr404(tx, &position, id, "Position"); err != nil {
			return err
		}
		if err := tx.Where("position_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&position).Error
	})
}

// Apply files a pending application. One application per member and position.
func Apply(db *gorm.DB, actor Actor, in ApplyInput) (*models.Application, error) {
	var position models.Position
	if err := findOr404(db, &position, in.PositionID.Uint64(), "Position"); err != nil {
		return nil, err
	}
	if position.Status != models.PositionOpen {
		metrics.Application(metrics.OutcomeRejected)
		return nil, types.NewFieldError("position_id", "This position is not accepting applications.")
	}

	var count int64
	if err := db.Model(&models.Application{}).
		Where("member_id = ? AND position_id = ?", actor.ID, position.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		metrics.Application(metrics.OutcomeConflict)
		return nil, types.NewConflictError("You have already applied to this position.", nil)
	}

	application := models.Application{
		MemberID:   actor.ID,
		PositionID: position.ID,
		Status:     models.ApplicationPending,
		Motivation: strings.TrimSpace(in.Motivation),
	}
	if err := db.Create(&application).Error; err != nil {
		if database.IsUniqueViolation(err) {
			metrics.Application(metrics.OutcomeConflict)
			return nil, types.NewConflictError("You have already applied to this position.", err)
		}
		return nil, err
	}
	metrics.Application(metrics.OutcomeCreated)

	application.Position = &position
	return &application, nil
}

// ListApplicantsByPosition returns a position's applications with member details. Officers only.
func ListApplicantsByPosition(db *gorm.DB, actor Actor, positionID uint64) ([]models.Application, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	var position models.Position
	if err := findOr404(db, &position, positionID, "Position"); err != nil {
		return nil, err
	}

	applications := make([]models.Application, 0)
	err := tagged(db, "listApplicants").
		Preload("Member").
		Where("position_id = ?", positionID).
		Order("created_at ASC").Order("id ASC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// SelectApplicant decides a pending application. Decided applications are
// final; the conditional update makes concurrent reviewers race safely.
// Quota is advisory and not checked.
func SelectApplicant(db *gorm.DB, actor Actor, applicationID uint64, in SelectInput) (*models.Application, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	decision := models.ApplicationStatus(in.Status)
	if decision != models.ApplicationAccepted && decision != models.ApplicationRejected {
		return nil, types.NewFieldError("status", "The selected status is invalid.")
	}

	var application models.Application
	if err := findOr404(db, &application, applicationID, "Application"); err != nil {
		return nil, err
	}
	if application.Status != models.ApplicationPending {
		return nil, types.NewConflictError("This application has already been decided.", nil)
	}

	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, models.ApplicationPending).
		Update("status", decision)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, types.NewConflictError("This application has already been decided.", nil)
	}
	if decision == models.ApplicationAccepted {
		metrics.Decision(metrics.OutcomeAccepted)
	} else {
		metrics.Decision(metrics.OutcomeRejected)
	}

	if err := db.Preload("Member").Preload("Position.Program").First(&application, applicationID).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// MyApplications returns the actor's applications with position and program
func MyApplications(db *gorm.DB, actor Actor) ([]models.Application, error) {
	return memberApplications(tagged(db, "myApplications"), actor.ID, "")
}

// MyCommittee returns the actor's accepted applications
func MyCommittee(db *gorm.DB, actor Actor) ([]models.Application, error) {
	return memberApplications(tagged(db, "myCommittee"), actor.ID, models.ApplicationAccepted)
}

func memberApplications(db *gorm.DB, memberID uint64, status models.ApplicationStatus) ([]models.Application, error) {
	query := db.Preload("Position.Program").Where("member_id = ?", memberID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	applications := make([]models.Application, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func programExists(db *gorm.DB, programID uint64) error {
	var count int64
	if err := db.Model(&models.Program{}).Where("id = ?", programID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return types.NewFieldError("program_id", "The selected program_id is invalid.")
	}
	return nil
}
