package models

import "time"

// Agenda is an event whose attendance is taken by scanning its QR token
type Agenda struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"size:255" json:"location"`
	StartsAt    time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	QRToken     string     `gorm:"column:qr_token;size:64;not null;uniqueIndex" json:"qr_token,omitempty"`
	CreatedByID uint64     `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Attendance is one scan of an agenda by a member
type Attendance struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AgendaID  uint64    `gorm:"not null;uniqueIndex:idx_attendance_agenda_member" json:"agenda_id"`
	MemberID  uint64    `gorm:"not null;uniqueIndex:idx_attendance_agenda_member;index" json:"member_id"`
	ScannedAt time.Time `gorm:"not null" json:"scanned_at"`
	Agenda    *Agenda   `gorm:"foreignKey:AgendaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"agenda,omitempty"`
	Member    *Member   `gorm:"foreignKey:MemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member,omitempty"`
}

// TableName overrides the table name for Agenda
func (Agenda) TableName() string {
	return "agendas"
}

// TableName overrides the table name for Attendance
func (Attendance) TableName() string {
	return "attendances"
}
