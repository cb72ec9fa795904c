package services

import (
	"strings"
	"time"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgramInput is the body for creating or updating a program. Pointer
// fields are optional on update.
type ProgramInput struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string         `json:"description"`
	Department  *string         `json:"department" validate:"omitempty,max=64"`
	StartDate   *types.FlexTime `json:"start_date"`
	EndDate     *types.FlexTime `json:"end_date"`
}

// ListPrograms returns every program, newest first by start date
func ListPrograms(db *gorm.DB, department string) ([]models.Program, error) {
	query := tagged(db, "listPrograms").Order("start_date DESC").Order("id ASC")
	if department != "" {
		query = query.Where("department = ?", department)
	}
	programs := make([]models.Program, 0)
	if err := query.Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// GetProgram returns one program with its positions
func GetProgram(db *gorm.DB, id uint64) (*models.Program, error) {
	var program models.Program
	query := tagged(db, "getProgram").Preload("Positions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	if err := findOr404(query, &program, id, "Program"); err != nil {
		return nil, err
	}
	return &program, nil
}

// CreateProgram adds a program. Officers only.
func CreateProgram(db *gorm.DB, actor Actor, in ProgramInput) (*models.Program, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		fields["name"] = []string{"The name field is required."}
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		fields["start_date"] = []string{"The start_date field is required."}
	}
	if in.EndDate == nil || in.EndDate.IsZero() {
		fields["end_date"] = []string{"The end_date field is required."}
	}
	if len(fields) > 0 {
		return nil, types.NewValidationError("The given data was invalid.", fields)
	}
	start, end := calendarDate(in.StartDate.Time), calendarDate(in.EndDate.Time)
	if time.Time(end).Before(time.Time(start)) {
		return nil, types.NewFieldError("end_date", "The end_date must be a date after or equal to start_date.")
	}

	program := models.Program{
		Name:      strings.TrimSpace(*in.Name),
		StartDate: start,
		EndDate:   end,
	}
	if in.Description != nil {
		program.Description = *in.Description
	}
	if in.Department != nil {
		program.Department = *in.Department
	}
	if err := db.Create(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// UpdateProgram applies a partial update. Officers only.
func UpdateProgram(db *gorm.DB, actor Actor, id uint64, in ProgramInput) (*models.Program, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	var program models.Program
	if err := findOr404(db, &program, id, "Program"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Department != nil {
		updates["department"] = *in.Department
	}
	start, end := program.StartDate, program.EndDate
	if in.StartDate != nil && !in.StartDate.IsZero() {
		start = calendarDate(in.StartDate.Time)
		updates["start_date"] = start
	}
	if in.EndDate != nil && !in.EndDate.IsZero() {
		end = calendarDate(in.EndDate.Time)
		updates["end_date"] = end
	}
	if time.Time(calendarDate(time.Time(end))).Before(time.Time(calendarDate(time.Time(start)))) {
		return nil, types.NewFieldError("end_date", "The end_date must be a date after or equal to start_date.")
	}

	if len(updates) > 0 {
		if err := db.Model(&program).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetProgram(db, id)
}

// DeleteProgram removes a program with its positions and their applications. Officers only.
func DeleteProgram(db *gorm.DB, actor Actor, id uint64) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var program models.Program
		if err := findOr404(tx, &program, id, "Program"); err != nil {
			return err
		}
		positions := tx.Model(&models.Position{}).Select("id").Where("program_id = ?", id)
		if err := tx.Where("position_id IN (?)", positions).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		return tx.Delete(&program).Error
	})
}

// calendarDate drops the time of day, keeping the date as written
func calendarDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
