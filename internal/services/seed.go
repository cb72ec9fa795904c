package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedMember is one entry of the member seed file
type SeedMember struct {
	NIM      string  `json:"nim"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	Title    *string `json:"title"`
	Password string  `json:"password"`
}

// SeedProgram is one entry of the program seed file
type SeedProgram struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Department  string         `json:"department"`
	StartDate   types.FlexTime `json:"start_date"`
	EndDate     types.FlexTime `json:"end_date"`
	Positions   []struct {
		Name         string `json:"name"`
		Quota        int    `json:"quota"`
		Requirements string `json:"requirements"`
	} `json:"positions"`
}

// SeedResult counts what a seed run created
type SeedResult struct {
	Members  int `json:"members"`
	Programs int `json:"programs"`
}

// Seed loads the member and program seed files. Members whose NIM already
// exists and programs whose name already exists are skipped, so it can be
// rerun safely.
func Seed(db *gorm.DB, membersJSON, programsJSON []byte) (*SeedResult, error) {
	var members []SeedMember
	if err := json.Unmarshal(membersJSON, &members); err != nil {
		return nil, fmt.Errorf("failed to parse member seed: %w", err)
	}
	var programs []SeedProgram
	if len(programsJSON) > 0 {
		if err := json.Unmarshal(programsJSON, &programs); err != nil {
			return nil, fmt.Errorf("failed to parse program seed: %w", err)
		}
	}

	result := &SeedResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, m := range members {
			role := models.Role(m.Role)
			if m.Role == "" {
				role = models.RoleMember
			}
			if !role.Valid() {
				return fmt.Errorf("seed member %s: invalid role %q", m.NIM, m.Role)
			}
			nim := strings.TrimSpace(m.NIM)
			var count int64
			if err := tx.Model(&models.Member{}).Where("nim = ?", nim).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			hash, err := HashPassword(m.Password)
			if err != nil {
				return err
			}
			member := models.Member{
				NIM:          nim,
				Name:         m.Name,
				Email:        m.Email,
				Role:         role,
				Title:        m.Title,
				PasswordHash: hash,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			result.Members++
		}

		for _, p := range programs {
			var count int64
			if err := tx.Model(&models.Program{}).Where("name = ?", p.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			program := models.Program{
				Name:        p.Name,
				Description: p.Description,
				Department:  p.Department,
				StartDate:   datatypes.Date(p.StartDate.Time),
				EndDate:     datatypes.Date(p.EndDate.Time),
			}
			for _, pos := range p.Positions {
				program.Positions = append(program.Positions, models.Position{
					Name:         pos.Name,
					Quota:        pos.Quota,
					Requirements: pos.Requirements,
					Status:       models.PositionOpen,
				})
			}
			if err := tx.Create(&program).Error; err != nil {
				return err
			}
			result.Programs++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
