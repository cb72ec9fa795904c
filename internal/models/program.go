package models

import (
	"time"

	"gorm.io/datatypes"
)

// Program is an organizational initiative that recruitment positions hang off
type Program struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Department  string         `gorm:"size:64;index" json:"department"`
	StartDate   datatypes.Date `json:"start_date"`
	EndDate     datatypes.Date `json:"end_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Positions   []Position     `gorm:"foreignKey:ProgramID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"positions,omitempty"`
}

// TableName overrides the table name for Program
func (Program) TableName() string {
	return "programs"
}
