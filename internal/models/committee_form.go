package models

import "time"

// FormStatus is whether a recruitment form accepts registrations
type FormStatus string

const (
	FormActive FormStatus = "active"
	FormClosed FormStatus = "closed"
)

// QuestionType selects the answer shape a question expects
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionTextarea       QuestionType = "textarea"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionRadio          QuestionType = "radio"
)

// IsChoice reports whether answers must come from the question's options
func (t QuestionType) IsChoice() bool {
	return t == QuestionMultipleChoice || t == QuestionRadio
}

// RegistrationStatus is the review state of a registration
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// RecruitmentForm is a per-cycle committee registration form
type RecruitmentForm struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatorID   uint64     `gorm:"not null;index" json:"creator_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      FormStatus `gorm:"size:16;not null;default:active" json:"status"`
	OpenAt      *time.Time `json:"open_at"`
	CloseAt     *time.Time `json:"close_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Creator     *Member    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Divisions   []Division `gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"divisions"`
	Questions   []Question `gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
}

// AcceptsAt reports whether registrations are open at t
func (f RecruitmentForm) AcceptsAt(t time.Time) bool {
	if f.Status == FormClosed {
		return false
	}
	if f.OpenAt != nil && t.Before(*f.OpenAt) {
		return false
	}
	if f.CloseAt != nil && t.After(*f.CloseAt) {
		return false
	}
	return true
}

// Division is a sub-choice of a form that members register into. Order is the sort key.
type Division struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID    uint64    `gorm:"not null;index" json:"form_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quota     int       `gorm:"not null;default:0" json:"quota"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Question is a form field definition. Options only apply to choice types.
type Question struct {
	ID        uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID    uint64       `gorm:"not null;index" json:"form_id"`
	Text      string       `gorm:"column:question;type:text;not null" json:"question"`
	Type      QuestionType `gorm:"size:32;not null" json:"type"`
	Options   StringList   `json:"options"`
	Required  bool         `gorm:"not null" json:"required"`
	Order     int          `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Registration is a member's submission into one division of a form.
// (member, form, division) is unique; a member may register into several divisions of one form.
type Registration struct {
	ID         uint64             `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID   uint64             `gorm:"not null;uniqueIndex:idx_registration_member_form_division" json:"member_id"`
	FormID     uint64             `gorm:"not null;uniqueIndex:idx_registration_member_form_division;index" json:"form_id"`
	DivisionID uint64             `gorm:"not null;uniqueIndex:idx_registration_member_form_division" json:"division_id"`
	Status     RegistrationStatus `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Member     *Member            `gorm:"foreignKey:MemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member,omitempty"`
	Form       *RecruitmentForm   `gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"form,omitempty"`
	Division   *Division          `gorm:"foreignKey:DivisionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"division,omitempty"`
	Answers    []Answer           `gorm:"foreignKey:RegistrationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers,omitempty"`
}

// Answer is the free-text value submitted for one question
type Answer struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RegistrationID uint64    `gorm:"not null;index" json:"registration_id"`
	QuestionID     uint64    `gorm:"not null;index" json:"question_id"`
	Value          string    `gorm:"column:answer;type:text" json:"answer"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Question       *Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question,omitempty"`
}

// TableName overrides the table name for RecruitmentForm
func (RecruitmentForm) TableName() string {
	return "committee_forms"
}

// TableName overrides the table name for Division
func (Division) TableName() string {
	return "committee_form_divisions"
}

// TableName overrides the table name for Question
func (Question) TableName() string {
	return "committee_form_questions"
}

// TableName overrides the table name for Registration
func (Registration) TableName() string {
	return "committee_form_registrations"
}

// TableName overrides the table name for Answer
func (Answer) TableName() string {
	return "committee_form_answers"
}
