package services

import (
	"strings"

	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
)

// CreateMemberInput is the body for enrolling a member
type CreateMemberInput struct {
	NIM      string  `json:"nim" validate:"required,max=32"`
	Name     string  `json:"name" validate:"required,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     string  `json:"role" validate:"omitempty,member_role"`
	Title    *string `json:"title" validate:"omitempty,max=255"`
	Bio      string  `json:"bio"`
}

// UpdateProfileInput is a partial self-service profile edit
type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Bio   *string `json:"bio"`
	Title *string `json:"title" validate:"omitempty,max=255"`
}

// ListMembers returns the directory, optionally filtered by role. Officers only.
func ListMembers(db *gorm.DB, actor Actor, role string) ([]models.Member, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	query := tagged(db, "listMembers").Order("id ASC")
	if role != "" {
		if !models.Role(role).Valid() {
			return nil, types.NewFieldError("role", "The selected role is invalid.")
		}
		query = query.Where("role = ?", role)
	}
	members := make([]models.Member, 0)
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// GetMember returns one member
func GetMember(db *gorm.DB, id uint64) (*models.Member, error) {
	var member models.Member
	if err := findOr404(tagged(db, "getMember"), &member, id, "Member"); err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateMember enrolls a member. Officers only.
func CreateMember(db *gorm.DB, actor Actor, in CreateMemberInput) (*models.Member, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := models.RoleMember
	if in.Role != "" {
		role = models.Role(in.Role)
	}

	member := models.Member{
		NIM:          strings.TrimSpace(in.NIM),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Role:         role,
		Title:        in.Title,
		Bio:          in.Bio,
		PasswordHash: hash,
	}
	if err := db.Create(&member).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, types.NewFieldError("nim", "The nim has already been taken.")
		}
		return nil, err
	}
	return &member, nil
}

// UpdateProfile applies a self-service edit. Only officers carry a title.
func UpdateProfile(db *gorm.DB, actor Actor, in UpdateProfileInput) (*models.Member, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Title != nil {
		if !actor.IsOfficer() {
			return nil, types.NewForbiddenError("Only officers may set a title.")
		}
		updates["title"] = *in.Title
	}

	var member models.Member
	if err := findOr404(db, &member, actor.ID, "Member"); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(&member).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetMember(db, actor.ID)
}

// SetAvatar records a stored avatar reference on the actor's profile
func SetAvatar(db *gorm.DB, actor Actor, ref string) (*models.Member, error) {
	result := db.Model(&models.Member{}).Where("id = ?", actor.ID).Update("avatar", ref)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, types.NewNotFoundError("Member not found")
	}
	return GetMember(db, actor.ID)
}
