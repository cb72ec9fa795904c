package services

import (
	"fmt"
	"time"

	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/metrics"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
)

// clock is the time registration windows are checked against
var clock = time.Now

// AnswerInput is one submitted answer. Choice answers may be a list.
type AnswerInput struct {
	QuestionID types.FlexUint64       `json:"question_id" validate:"required"`
	Answer     types.FlexList[string] `json:"answer"`
}

// RegisterInput is the body of a committee registration
type RegisterInput struct {
	FormID     types.FlexUint64 `json:"form_id" validate:"required"`
	DivisionID types.FlexUint64 `json:"division_id" validate:"required"`
	Answers    []AnswerInput    `json:"answers" validate:"omitempty,dive"`
}

// RegistrationStatusInput is a reviewer decision on a registration
type RegistrationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func registrationDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Form").Preload("Division").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Answers.Question")
}

// RegisterForm records the actor's registration to one division of a form
// together with all answers, or nothing at all.
func RegisterForm(db *gorm.DB, actor Actor, in RegisterInput) (*models.Registration, error) {
	var form models.RecruitmentForm
	if err := findOr404(orderedChildren(db), &form, in.FormID.Uint64(), "Form"); err != nil {
		return nil, err
	}
	if !form.AcceptsAt(clock()) {
		metrics.Registration(metrics.OutcomeRejected)
		closed := types.NewFieldError("form_id", "This form is not accepting registrations.")
		closed.Type = types.TypeFormClosed
		return nil, closed
	}

	answers, err := checkRegistration(form, in)
	if err != nil {
		metrics.Registration(metrics.OutcomeRejected)
		return nil, err
	}

	var existing int64
	if err := db.Model(&models.Registration{}).
		Where("member_id = ? AND form_id = ? AND division_id = ?", actor.ID, form.ID, in.DivisionID.Uint64()).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		metrics.Registration(metrics.OutcomeConflict)
		return nil, types.NewConflictError("You have already registered to this division.", nil)
	}

	registration := models.Registration{
		MemberID:   actor.ID,
		FormID:     form.ID,
		DivisionID: in.DivisionID.Uint64(),
		Status:     models.RegistrationPending,
	}
	if err := insertRegistration(db, &registration, answers); err != nil {
		return nil, err
	}
	metrics.Registration(metrics.OutcomeCreated)

	if err := registrationDetails(db).First(&registration, registration.ID).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// insertRegistration writes the registration and its answers in one
// transaction. A registration that lost the race against a concurrent one
// for the same division hits the unique index and becomes a 409.
func insertRegistration(db *gorm.DB, registration *models.Registration, answers []models.Answer) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Answers").Create(registration).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].RegistrationID = registration.ID
		}
		return tx.Create(&answers).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			metrics.Registration(metrics.OutcomeConflict)
			return types.NewConflictError("You have already registered to this division.", err)
		}
		metrics.Registration(metrics.OutcomeFailed)
		return err
	}
	return nil
}

// checkRegistration validates the division and answers against the form and
// returns the answers to store.
func checkRegistration(form models.RecruitmentForm, in RegisterInput) ([]models.Answer, error) {
	fields := map[string][]string{}

	inForm := false
	for _, d := range form.Divisions {
		if d.ID == in.DivisionID.Uint64() {
			inForm = true
			break
		}
	}
	if !inForm {
		fields["division_id"] = []string{"The selected division_id is invalid."}
	}

	questions := make(map[uint64]models.Question, len(form.Questions))
	for _, q := range form.Questions {
		questions[q.ID] = q
	}

	// seen holds every answered question, filled those with a stored value and
	// invalid those whose answer failed its rule
	seen := make(map[uint64]bool, len(in.Answers))
	filled := make(map[uint64]bool, len(in.Answers))
	invalid := make(map[uint64]bool)
	answers := make([]models.Answer, 0, len(in.Answers))
	for i, a := range in.Answers {
		key := fmt.Sprintf("answers.%d.question_id", i)
		q, ok := questions[a.QuestionID.Uint64()]
		if !ok {
			fields[key] = append(fields[key], "The selected question_id is invalid.")
			continue
		}
		if seen[q.ID] {
			fields[key] = append(fields[key], "The question has already been answered.")
			continue
		}
		seen[q.ID] = true

		value, err := normalizeAnswer(q, a.Answer.Slice())
		if err != nil {
			key = fmt.Sprintf("answers.%d.answer", i)
			fields[key] = append(fields[key], err.Error())
			invalid[q.ID] = true
			continue
		}
		if value != "" {
			filled[q.ID] = true
			answers = append(answers, models.Answer{QuestionID: q.ID, Value: value})
		}
	}

	for _, q := range form.Questions {
		if !q.Required || filled[q.ID] || invalid[q.ID] {
			continue
		}
		fields["answers"] = append(fields["answers"], fmt.Sprintf("The question %q is required.", q.Text))
	}

	if len(fields) > 0 {
		return nil, types.NewValidationError("The given data was invalid.", fields)
	}
	return answers, nil
}

// MyRegistrations returns the actor's registrations with form, division and answers
func MyRegistrations(db *gorm.DB, actor Actor) ([]models.Registration, error) {
	registrations := make([]models.Registration, 0)
	err := registrationDetails(tagged(db, "myRegistrations")).
		Where("member_id = ?", actor.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// ListRegistrations returns every registration of a form. Officers only.
func ListRegistrations(db *gorm.DB, actor Actor, formID uint64) ([]models.Registration, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	var form models.RecruitmentForm
	if err := findOr404(db, &form, formID, "Form"); err != nil {
		return nil, err
	}

	registrations := make([]models.Registration, 0)
	err := tagged(db, "listRegistrations").
		Preload("Member").Preload("Division").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Answers.Question").
		Where("form_id = ?", formID).
		Order("id ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// UpdateRegistrationStatus sets a registration's review status. Officers only.
func UpdateRegistrationStatus(db *gorm.DB, actor Actor, id uint64, in RegistrationStatusInput) (*models.Registration, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	status := models.RegistrationStatus(in.Status)
	switch status {
	case models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected:
	default:
		return nil, types.NewFieldError("status", "The selected status is invalid.")
	}

	var registration models.Registration
	if err := findOr404(db, &registration, id, "Registration"); err != nil {
		return nil, err
	}
	if err := db.Model(&registration).Update("status", status).Error; err != nil {
		return nil, err
	}
	if err := registrationDetails(db).Preload("Member").First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// DeleteRegistration withdraws a registration and its answers. Allowed for
// officers and the member who registered.
func DeleteRegistration(db *gorm.DB, actor Actor, id uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := findOr404(tx, &registration, id, "Registration"); err != nil {
			return err
		}
		if !actor.IsOfficer() && registration.MemberID != actor.ID {
			return types.NewForbiddenError("You may only withdraw your own registrations.")
		}
		if err := tx.Where("registration_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&registration).Error
	})
}
