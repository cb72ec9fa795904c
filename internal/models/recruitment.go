package models

import "time"

// PositionStatus is whether a position takes applications
type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Position is a recruitment opening under a program. Quota is advisory.
type Position struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ProgramID    uint64         `gorm:"not null;index" json:"program_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Quota        int            `gorm:"not null;default:0" json:"quota"`
	Status       PositionStatus `gorm:"size:16;not null;default:open" json:"status"`
	Requirements string         `gorm:"type:text" json:"requirements"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Program      *Program       `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"program,omitempty"`
}

// Application is a member's request to fill a position.
// A member applies to a position at most once.
type Application struct {
	ID         uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID   uint64            `gorm:"not null;uniqueIndex:idx_application_member_position" json:"member_id"`
	PositionID uint64            `gorm:"not null;uniqueIndex:idx_application_member_position;index" json:"position_id"`
	Status     ApplicationStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	Motivation string            `gorm:"type:text" json:"motivation"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Member     *Member           `gorm:"foreignKey:MemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member,omitempty"`
	Position   *Position         `gorm:"foreignKey:PositionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"position,omitempty"`
}

// TableName overrides the table name for Position
func (Position) TableName() string {
	return "positions"
}

// TableName overrides the table name for Application
func (Application) TableName() string {
	return "applications"
}
