package models

import "time"

// Role is a member's standing in the organization
type Role string

const (
	RoleMember  Role = "member"
	RoleAlumnus Role = "alumnus"
	RoleOfficer Role = "officer"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAlumnus, RoleOfficer:
		return true
	}
	return false
}

// Member is an account in the directory, identified by enrollment number (NIM)
type Member struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	NIM          string    `gorm:"column:nim;uniqueIndex;size:32;not null" json:"nim"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        *string   `gorm:"size:255" json:"email"`
	Role         Role      `gorm:"size:16;not null;default:member" json:"role"`
	Title        *string   `gorm:"size:255" json:"title"`
	Avatar       *string   `gorm:"size:255" json:"avatar"`
	Bio          string    `gorm:"type:text" json:"bio"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for Member
func (Member) TableName() string {
	return "members"
}
