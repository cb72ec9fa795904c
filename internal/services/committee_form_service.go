// committee_form_service.go
//
// Student organization portal API service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of orgportal.
// orgportal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// orgportal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with orgportal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
)

// DivisionInput is one division of a form body
type DivisionInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Quota int    `json:"quota" validate:"min=0"`
	Order *int   `json:"order" validate:"omitempty,min=0"`
}

// QuestionInput is one question of a form body
type QuestionInput struct {
	Question string                 `json:"question" validate:"required"`
	Type     string                 `json:"type" validate:"required,oneof=text textarea multiple_choice radio"`
	Options  types.FlexList[string] `json:"options"`
	Required bool                   `json:"required"`
	Order    *int                   `json:"order" validate:"omitempty,min=0"`
}

// FormInput is the body for creating or updating a recruitment form.
// On update, nil Divisions or Questions leave the existing ones in place, and
// an open_at or close_at sent as null clears that bound.
type FormInput struct {
	Name        *string            `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string            `json:"description"`
	Status      *string            `json:"status" validate:"omitempty,oneof=active closed"`
	OpenAt      types.OptionalTime `json:"open_at" swaggertype:"string"`
	CloseAt     types.OptionalTime `json:"close_at" swaggertype:"string"`
	Divisions   []DivisionInput    `json:"divisions" validate:"omitempty,dive"`
	Questions   []QuestionInput    `json:"questions" validate:"omitempty,dive"`
}

func orderedChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("Divisions", byOrder).Preload("Questions", byOrder)
}

// ListForms returns every form with its divisions and questions
func ListForms(db *gorm.DB) ([]models.RecruitmentForm, error) {
	forms := make([]models.RecruitmentForm, 0)
	if err := orderedChildren(tagged(db, "listForms")).Order("id ASC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// GetForm returns one form with its divisions and questions
func GetForm(db *gorm.DB, id uint64) (*models.RecruitmentForm, error) {
	var form models.RecruitmentForm
	if err := findOr404(orderedChildren(tagged(db, "getForm")), &form, id, "Form"); err != nil {
		return nil, err
	}
	return &form, nil
}

// CreateForm writes a form with its divisions and questions in one
// transaction. Officers only.
func CreateForm(db *gorm.DB, actor Actor, in FormInput) (*models.RecruitmentForm, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	fields := checkFormShape(in, nil)
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		fields["name"] = append(fields["name"], "The name field is required.")
	}
	if len(in.Divisions) == 0 {
		fields["divisions"] = append(fields["divisions"], "At least one division is required.")
	}
	if len(fields) > 0 {
		return nil, types.NewValidationError("The given data was invalid.", fields)
	}

	form := models.RecruitmentForm{
		CreatorID: actor.ID,
		Name:      strings.TrimSpace(*in.Name),
		Status:    models.FormActive,
		Divisions: buildDivisions(in.Divisions),
		Questions: buildQuestions(in.Questions),
	}
	if in.Description != nil {
		form.Description = *in.Description
	}
	if in.Status != nil {
		form.Status = models.FormStatus(*in.Status)
	}
	form.OpenAt = in.OpenAt.Ptr()
	form.CloseAt = in.CloseAt.Ptr()

	// Create saves the has-many children in the same transaction.
	if err := db.Create(&form).Error; err != nil {
		return nil, err
	}
	return GetForm(db, form.ID)
}

// UpdateForm applies a partial metadata update. Divisions and questions are
// replaced wholesale when given, but only while the form has no
// registrations. Officers only.
func UpdateForm(db *gorm.DB, actor Actor, id uint64, in FormInput) (*models.RecruitmentForm, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.RecruitmentForm
		if err := findOr404(tx, &form, id, "Form"); err != nil {
			return err
		}

		fields := checkFormShape(in, &form)
		if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
			fields["name"] = append(fields["name"], "The name field is required.")
		}
		if in.Divisions != nil && len(in.Divisions) == 0 {
			fields["divisions"] = append(fields["divisions"], "At least one division is required.")
		}
		if len(fields) > 0 {
			return types.NewValidationError("The given data was invalid.", fields)
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Status != nil {
			updates["status"] = *in.Status
		}
		if in.OpenAt.Set {
			updates["open_at"] = in.OpenAt.Ptr()
		}
		if in.CloseAt.Set {
			updates["close_at"] = in.CloseAt.Ptr()
		}
		if len(updates) > 0 {
			if err := tx.Model(&form).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.Divisions == nil && in.Questions == nil {
			return nil
		}

		var registrations int64
		if err := tx.Model(&models.Registration{}).Where("form_id = ?", id).Count(&registrations).Error; err != nil {
			return err
		}
		if registrations > 0 {
			return types.NewConflictError("Divisions and questions cannot change once members have registered.", nil)
		}

		if in.Divisions != nil {
			if err := tx.Where("form_id = ?", id).Delete(&models.Division{}).Error; err != nil {
				return err
			}
			divisions := buildDivisions(in.Divisions)
			for i := range divisions {
				divisions[i].FormID = id
			}
			if err := tx.Create(&divisions).Error; err != nil {
				return err
			}
		}
		if in.Questions != nil {
			if err := tx.Where("form_id = ?", id).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			questions := buildQuestions(in.Questions)
			for i := range questions {
				questions[i].FormID = id
			}
			if len(questions) > 0 {
				if err := tx.Create(&questions).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetForm(db, id)
}

// DeleteForm removes a form with its divisions, questions, registrations and
// answers. Officers only.
func DeleteForm(db *gorm.DB, actor Actor, id uint64) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var form models.RecruitmentForm
		if err := findOr404(tx, &form, id, "Form"); err != nil {
			return err
		}

		registrations := tx.Model(&models.Registration{}).Select("id").Where("form_id = ?", id)
		if err := tx.Where("registration_id IN (?)", registrations).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		for _, child := range []interface{}{&models.Registration{}, &models.Question{}, &models.Division{}} {
			if err := tx.Where("form_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&form).Error
	})
}

// checkFormShape reports the cross-field problems of a form body. existing
// supplies the stored window bounds on update.
func checkFormShape(in FormInput, existing *models.RecruitmentForm) map[string][]string {
	fields := map[string][]string{}

	var openAt, closeAt *time.Time
	if existing != nil {
		openAt, closeAt = existing.OpenAt, existing.CloseAt
	}
	if in.OpenAt.Set {
		openAt = in.OpenAt.Ptr()
	}
	if in.CloseAt.Set {
		closeAt = in.CloseAt.Ptr()
	}
	if openAt != nil && closeAt != nil && closeAt.Before(*openAt) {
		fields["close_at"] = []string{"The close_at must be a date after or equal to open_at."}
	}

	for i, d := range in.Divisions {
		if strings.TrimSpace(d.Name) == "" {
			key := fmt.Sprintf("divisions.%d.name", i)
			fields[key] = append(fields[key], "The name field is required.")
		}
		if d.Order != nil && *d.Order < 0 {
			key := fmt.Sprintf("divisions.%d.order", i)
			fields[key] = append(fields[key], "The order must be at least 0.")
		}
	}
	for i, q := range in.Questions {
		if strings.TrimSpace(q.Question) == "" {
			key := fmt.Sprintf("questions.%d.question", i)
			fields[key] = append(fields[key], "The question field is required.")
		}
		if q.Order != nil && *q.Order < 0 {
			key := fmt.Sprintf("questions.%d.order", i)
			fields[key] = append(fields[key], "The order must be at least 0.")
		}
		if !models.QuestionType(q.Type).IsChoice() {
			continue
		}
		options := cleanOptions(q.Options)
		key := fmt.Sprintf("questions.%d.options", i)
		if len(options) == 0 {
			fields[key] = append(fields[key], "Choice questions need at least one option.")
		}
		// multiple choice answers are stored joined, so a label may not contain the separator
		for _, o := range options {
			if strings.Contains(o, answerSeparator) {
				fields[key] = append(fields[key], fmt.Sprintf("The option %q may not contain %q.", o, answerSeparator))
			}
		}
	}
	return fields
}

func buildDivisions(in []DivisionInput) []models.Division {
	divisions := make([]models.Division, 0, len(in))
	for i, d := range in {
		divisions = append(divisions, models.Division{
			Name:  strings.TrimSpace(d.Name),
			Quota: d.Quota,
			Order: orderOr(d.Order, i),
		})
	}
	return divisions
}

func buildQuestions(in []QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(in))
	for i, q := range in {
		question := models.Question{
			Text:     strings.TrimSpace(q.Question),
			Type:     models.QuestionType(q.Type),
			Options:  models.StringList{},
			Required: q.Required,
			Order:    orderOr(q.Order, i),
		}
		if question.Type.IsChoice() {
			question.Options = cleanOptions(q.Options)
		}
		questions = append(questions, question)
	}
	return questions
}

// cleanOptions trims labels and drops blanks and repeats
func cleanOptions(options types.FlexList[string]) models.StringList {
	seen := make(map[string]bool, len(options))
	out := make(models.StringList, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

func orderOr(order *int, index int) int {
	if order != nil {
		return *order
	}
	return index
}
