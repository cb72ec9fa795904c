package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/metrics"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
)

// AgendaInput is the body for scheduling an agenda
type AgendaInput struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	Location    string          `json:"location" validate:"max=255"`
	StartsAt    types.FlexTime  `json:"starts_at"`
	EndsAt      *types.FlexTime `json:"ends_at"`
}

// ScanInput carries the token read from an agenda's QR code
type ScanInput struct {
	Token string `json:"token" validate:"required"`
}

// hideToken blanks the QR token for anyone but officers
func hideToken(actor Actor, agendas ...*models.Agenda) {
	if actor.IsOfficer() {
		return
	}
	for _, a := range agendas {
		a.QRToken = ""
	}
}

// ListAgendas returns agendas, latest first
func ListAgendas(db *gorm.DB, actor Actor) ([]models.Agenda, error) {
	agendas := make([]models.Agenda, 0)
	if err := tagged(db, "listAgendas").Order("starts_at DESC").Order("id DESC").Find(&agendas).Error; err != nil {
		return nil, err
	}
	for i := range agendas {
		hideToken(actor, &agendas[i])
	}
	return agendas, nil
}

// GetAgenda returns one agenda
func GetAgenda(db *gorm.DB, actor Actor, id uint64) (*models.Agenda, error) {
	var agenda models.Agenda
	if err := findOr404(tagged(db, "getAgenda"), &agenda, id, "Agenda"); err != nil {
		return nil, err
	}
	hideToken(actor, &agenda)
	return &agenda, nil
}

// CreateAgenda schedules an agenda with a fresh QR token. Officers only.
func CreateAgenda(db *gorm.DB, actor Actor, in AgendaInput) (*models.Agenda, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = []string{"The title field is required."}
	}
	if in.StartsAt.IsZero() {
		fields["starts_at"] = []string{"The starts_at field is required."}
	}
	if in.EndsAt != nil && !in.EndsAt.IsZero() && !in.StartsAt.IsZero() && in.EndsAt.Before(in.StartsAt.Time) {
		fields["ends_at"] = []string{"The ends_at must be a date after or equal to starts_at."}
	}
	if len(fields) > 0 {
		return nil, types.NewValidationError("The given data was invalid.", fields)
	}

	agenda := models.Agenda{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt.UTC(),
		QRToken:     uuid.NewString(),
		CreatedByID: actor.ID,
	}
	if in.EndsAt != nil {
		agenda.EndsAt = in.EndsAt.Ptr()
	}
	if err := db.Create(&agenda).Error; err != nil {
		return nil, err
	}
	return &agenda, nil
}

// RotateAgendaToken replaces an agenda's QR token, invalidating printed codes. Officers only.
func RotateAgendaToken(db *gorm.DB, actor Actor, id uint64) (*models.Agenda, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	var agenda models.Agenda
	if err := findOr404(db, &agenda, id, "Agenda"); err != nil {
		return nil, err
	}
	token := uuid.NewString()
	if err := db.Model(&agenda).Update("qr_token", token).Error; err != nil {
		return nil, err
	}
	agenda.QRToken = token
	return &agenda, nil
}

// DeleteAgenda removes an agenda and its attendance. Officers only.
func DeleteAgenda(db *gorm.DB, actor Actor, id uint64) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var agenda models.Agenda
		if err := findOr404(tx, &agenda, id, "Agenda"); err != nil {
			return err
		}
		if err := tx.Where("agenda_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&agenda).Error
	})
}

// Scan records the actor's attendance at the agenda owning token
func Scan(db *gorm.DB, actor Actor, in ScanInput) (*models.Attendance, error) {
	var agenda models.Agenda
	err := db.Where("qr_token = ?", strings.TrimSpace(in.Token)).First(&agenda).Error
	if err != nil {
		if database.IsNotFound(err) {
			metrics.Scan(metrics.OutcomeUnknownQR)
			return nil, types.NewNotFoundError("Agenda not found")
		}
		return nil, err
	}

	attendance := models.Attendance{
		AgendaID:  agenda.ID,
		MemberID:  actor.ID,
		ScannedAt: clock().UTC(),
	}
	if err := db.Omit("Agenda", "Member").Create(&attendance).Error; err != nil {
		if database.IsUniqueViolation(err) {
			metrics.Scan(metrics.OutcomeConflict)
			return nil, types.NewConflictError("Attendance already recorded for this agenda.", err)
		}
		return nil, err
	}
	metrics.Scan(metrics.OutcomeRecorded)

	hideToken(actor, &agenda)
	attendance.Agenda = &agenda
	return &attendance, nil
}

// ListAttendances returns an agenda's attendance with members. Officers only.
func ListAttendances(db *gorm.DB, actor Actor, agendaID uint64) ([]models.Attendance, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	var agenda models.Agenda
	if err := findOr404(db, &agenda, agendaID, "Agenda"); err != nil {
		return nil, err
	}

	attendances := make([]models.Attendance, 0)
	err := tagged(db, "listAttendances").
		Preload("Member").
		Where("agenda_id = ?", agendaID).
		Order("scanned_at ASC").Order("id ASC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}

// MyAttendances returns the actor's attendance with agendas
func MyAttendances(db *gorm.DB, actor Actor) ([]models.Attendance, error) {
	attendances := make([]models.Attendance, 0)
	err := tagged(db, "myAttendances").
		Preload("Agenda").
		Where("member_id = ?", actor.ID).
		Order("scanned_at DESC").Order("id DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	for i := range attendances {
		if attendances[i].Agenda != nil {
			hideToken(actor, attendances[i].Agenda)
		}
	}
	return attendances, nil
}
